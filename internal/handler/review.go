package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/domain"
)

type reviewRequest struct {
	Review string `json:"review"`
	Stars  int    `json:"stars"`
}

type reviewImageRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

type reviewImageResponse struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

type reviewResponse struct {
	ID           uuid.UUID             `json:"id"`
	SpotID       uuid.UUID             `json:"spotId"`
	UserID       uuid.UUID             `json:"userId"`
	Review       string                `json:"review"`
	Stars        int                   `json:"stars"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
	ReviewImages []reviewImageResponse `json:"ReviewImages"`
}

// CreateReview handles POST /spots/{spotId}/reviews.
func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	var req reviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	created, err := s.reviews.Create(r.Context(), domain.Review{
		SpotID: spotID,
		UserID: userID,
		Review: req.Review,
		Stars:  req.Stars,
	})
	if errors.Is(err, domain.ErrConflict) {
		writeJSON(w, http.StatusConflict, messageBody{Message: msgDuplicateReview})
		return
	}
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, reviewToResponse(created))
}

// ListSpotReviews handles GET /spots/{spotId}/reviews.
func (s *Server) ListSpotReviews(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	reviews, err := s.reviews.ListForSpot(r.Context(), spotID)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"Reviews": reviewsToResponse(reviews)})
}

// ListCurrentUserReviews handles GET /reviews/current.
func (s *Server) ListCurrentUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviews, err := s.reviews.ListForUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err, msgReviewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"Reviews": reviewsToResponse(reviews)})
}

// UpdateReview handles PUT /reviews/{reviewId}.
func (s *Server) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, err := pathUUID(r, "reviewId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgReviewNotFound})
		return
	}
	var req reviewRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	updated, err := s.reviews.Update(r.Context(), userID, domain.Review{ID: reviewID, Review: req.Review, Stars: req.Stars})
	if err != nil {
		s.writeError(w, r, err, msgReviewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, reviewToResponse(updated))
}

// DeleteReview handles DELETE /reviews/{reviewId}.
func (s *Server) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, err := pathUUID(r, "reviewId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgReviewNotFound})
		return
	}
	if err := s.reviews.Delete(r.Context(), userID, reviewID); err != nil {
		s.writeError(w, r, err, msgReviewNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully deleted"})
}

// AddReviewImage handles POST /reviews/{reviewId}/images.
func (s *Server) AddReviewImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, err := pathUUID(r, "reviewId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgReviewNotFound})
		return
	}
	var req reviewImageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	img, err := s.reviews.AddImage(r.Context(), userID, reviewID, req.URL)
	if err != nil {
		s.writeError(w, r, err, msgReviewNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, reviewImageResponse{ID: img.ID, URL: img.URL})
}

// DeleteReviewImage handles DELETE /review-images/{imageId}.
func (s *Server) DeleteReviewImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	imageID, err := pathUUID(r, "imageId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgReviewImageNotFound})
		return
	}
	if err := s.reviews.DeleteImage(r.Context(), userID, imageID); err != nil {
		s.writeError(w, r, err, msgReviewImageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully deleted"})
}

func reviewToResponse(rv domain.Review) reviewResponse {
	images := make([]reviewImageResponse, len(rv.Images))
	for i, img := range rv.Images {
		images[i] = reviewImageResponse{ID: img.ID, URL: img.URL}
	}
	return reviewResponse{
		ID:           rv.ID,
		SpotID:       rv.SpotID,
		UserID:       rv.UserID,
		Review:       rv.Review,
		Stars:        rv.Stars,
		CreatedAt:    rv.CreatedAt,
		UpdatedAt:    rv.UpdatedAt,
		ReviewImages: images,
	}
}

func reviewsToResponse(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = reviewToResponse(rv)
	}
	return out
}
