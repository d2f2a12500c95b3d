package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/middleware"
)

// Client-facing messages.
const (
	msgBadRequest      = "Bad Request"
	msgForbidden       = "Forbidden"
	msgInternal        = "Internal Server Error"
	msgUnauthenticated = "Authentication required"
	msgBookedDates     = "Sorry, this spot is already booked for the specified dates"
	msgImageLimit      = "Maximum number of images for this resource was reached"
	msgDuplicateReview = "User already has a review for this spot"

	msgSpotNotFound        = "Spot couldn't be found"
	msgSpotImageNotFound   = "Spot Image couldn't be found"
	msgBookingNotFound     = "Booking couldn't be found"
	msgReviewNotFound      = "Review couldn't be found"
	msgReviewImageNotFound = "Review Image couldn't be found"
)

// errorBody is the JSON envelope of every non-2xx response.
type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a status code and envelope.
// notFound is the message for domain.ErrNotFound, since only the handler
// knows what was being looked up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		rejected *booking.RejectedError
		state    *booking.StateError
		fields   domain.FieldErrors
	)
	switch {
	case errors.As(err, &rejected):
		// Overlaps get their own status; the envelope is the same for every kind.
		status := http.StatusBadRequest
		if rejected.Kind == booking.KindConflict {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorBody{Message: msgBadRequest, Errors: rejected.Reasons})
	case errors.As(err, &state):
		writeJSON(w, http.StatusForbidden, messageBody{Message: state.Message})
	case errors.As(err, &fields):
		writeJSON(w, http.StatusBadRequest, errorBody{Message: msgBadRequest, Errors: fields})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageBody{Message: notFound})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, messageBody{Message: msgForbidden})
	case errors.Is(err, domain.ErrLimitReached):
		writeJSON(w, http.StatusForbidden, messageBody{Message: msgImageLimit})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, messageBody{Message: msgBookedDates})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: msgBadRequest})
	default:
		s.log.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: msgInternal})
	}
}

// decodeBody decodes the JSON request body into dst and validates it.
// It writes the error response itself and reports whether the handler may
// continue.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, messageBody{Message: "Request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{
			Message: msgBadRequest,
			Errors:  map[string]string{"body": "Request body must be valid JSON"},
		})
		return false
	}

	err := s.validate.Struct(dst)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Message: msgBadRequest, Errors: fields})
		return false
	}
	if err != nil {
		s.writeError(w, r, err, "")
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url", "http_url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Field() + " is invalid"
	}
}

// newValidator reports fields by their JSON names so validation errors match
// the request body the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// pathUUID binds the named chi path parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return id, err
}

// currentUser returns the authenticated caller. Routes that call it are
// mounted behind the authenticator; the 401 covers a missing wiring.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: msgUnauthenticated})
	}
	return id, ok
}
