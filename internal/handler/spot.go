package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/bnb/internal/domain"
)

type spotRequest struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type spotResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Country     string    `json:"country"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	PreviewImage *string `json:"previewImage,omitempty"`
}

type spotImageRequest struct {
	URL     string `json:"url" validate:"required,http_url"`
	Preview bool   `json:"preview"`
}

type spotImageResponse struct {
	ID      uuid.UUID `json:"id"`
	URL     string    `json:"url"`
	Preview bool      `json:"preview"`
}

type spotListResponse struct {
	Spots []spotResponse `json:"Spots"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
}

// CreateSpot handles POST /spots.
func (s *Server) CreateSpot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req spotRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	spot := req.toDomain()
	spot.OwnerID = userID
	created, err := s.spots.Create(r.Context(), spot)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, spotToResponse(created))
}

// ListSpots handles GET /spots.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListSpots(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: msgBadRequest, Errors: map[string]string{"page": "page must be an integer"}})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: msgBadRequest, Errors: map[string]string{"limit": "limit must be an integer"}})
		return
	}

	params := domain.NewPaginationParams(page, limit)
	result, err := s.spots.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}

	out := spotListResponse{
		Spots: make([]spotResponse, len(result.Items)),
		Page:  params.Page,
		Limit: params.Limit,
		Total: result.Total,
	}
	for i, sp := range result.Items {
		out.Spots[i] = spotToResponse(sp)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSpot handles GET /spots/{spotId}.
func (s *Server) GetSpot(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	spot, err := s.spots.GetByID(r.Context(), spotID)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, spotToResponse(spot))
}

// UpdateSpot handles PUT /spots/{spotId}.
func (s *Server) UpdateSpot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	var req spotRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	spot := req.toDomain()
	spot.ID = spotID
	updated, err := s.spots.Update(r.Context(), userID, spot)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, spotToResponse(updated))
}

// DeleteSpot handles DELETE /spots/{spotId}.
func (s *Server) DeleteSpot(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	if err := s.spots.Delete(r.Context(), userID, spotID); err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully deleted"})
}

// AddSpotImage handles POST /spots/{spotId}/images.
func (s *Server) AddSpotImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	var req spotImageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	img, err := s.spots.AddImage(r.Context(), userID, domain.SpotImage{SpotID: spotID, URL: req.URL, Preview: req.Preview})
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, spotImageResponse{ID: img.ID, URL: img.URL, Preview: img.Preview})
}

// DeleteSpotImage handles DELETE /spot-images/{imageId}.
func (s *Server) DeleteSpotImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	imageID, err := pathUUID(r, "imageId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotImageNotFound})
		return
	}
	if err := s.spots.DeleteImage(r.Context(), userID, imageID); err != nil {
		s.writeError(w, r, err, msgSpotImageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully deleted"})
}

func (req spotRequest) toDomain() domain.Spot {
	return domain.Spot{
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
}

func spotToResponse(sp domain.Spot) spotResponse {
	return spotResponse{
		ID:          sp.ID,
		OwnerID:     sp.OwnerID,
		Address:     sp.Address,
		City:        sp.City,
		State:       sp.State,
		Country:     sp.Country,
		Lat:         sp.Lat,
		Lng:         sp.Lng,
		Name:        sp.Name,
		Description: sp.Description,
		Price:       sp.Price,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,

		PreviewImage: sp.PreviewImage,
	}
}
