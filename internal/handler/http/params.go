package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// actorFrom writes 401 and returns ok=false when the verified token has no user_id.
func actorFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID, err := jwt.ActorFromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get actor from JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return "", false
	}
	return actorID, true
}

// decodeJSON decodes the body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// pathID reads the {id} segment. Every stored id is a UUID, so anything else is
// reported as notFound.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}

// pageParams reads ?page= and ?limit=; zero means "use the default".
func pageParams(r *http.Request, errs *validator.ValidationErrors) (page, limit int) {
	page = intParam(r, "page", errs)
	limit = intParam(r, "limit", errs)
	return page, limit
}

func intParam(r *http.Request, name string, errs *validator.ValidationErrors) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		errs.Add(name, name+" must be a non-negative integer")
		return 0
	}
	return v
}

func optionalString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func uuidParam(r *http.Request, name string, errs *validator.ValidationErrors) *string {
	v := optionalString(r, name)
	if v != nil && !validator.IsValidUUID(*v) {
		errs.Add(name, name+" must be a valid UUID")
		return nil
	}
	return v
}
