package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"geo-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CountryDirectory answers click-to-inspect lookups.
type CountryDirectory interface {
	Record(code string) (domain.CountryRecord, bool)
	FindByName(name string) (domain.CountryRecord, bool)
}

type CountryHandler struct {
	countries CountryDirectory
}

func NewCountryHandler(countries CountryDirectory) *CountryHandler {
	return &CountryHandler{countries: countries}
}

func (h *CountryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.byName)
	r.Get("/{code}", h.byCode)
	return r
}

func (h *CountryHandler) byCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	record, ok := h.countries.Record(code)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrCountryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *CountryHandler) byName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing name"})
		return
	}
	record, ok := h.countries.FindByName(name)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrCountryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
