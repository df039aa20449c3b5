package site

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/logger"
)

// ErrorView is the body of a failed request.
type ErrorView struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request, l locale.Locale) {
	writeJSON(w, http.StatusNotFound, ErrorView{
		Error:   "not_found",
		Message: s.translator.T(l.String(), "errors.pageNotFound"),
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, l locale.Locale, err error) {
	s.logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, ErrorView{
		Error:   "server_error",
		Message: s.translator.T(l.String(), "errors.somethingWentWrong"),
	})
}

func urlLocale(r *http.Request) string {
	return chi.URLParam(r, "locale")
}
