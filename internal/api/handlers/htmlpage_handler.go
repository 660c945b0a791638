package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/htmlpage/engine/internal/api/middleware"
	"github.com/htmlpage/engine/internal/api/types"
	"github.com/htmlpage/engine/internal/cors"
	"github.com/htmlpage/engine/internal/services"
	"github.com/htmlpage/engine/pkg/logger"
)

const (
	// Version1 is the only API version served.
	Version1 = 1

	ErrMsgVersionNotFound = "Version not found"

	// QueryIDDefault names the fallback page id query parameter.
	QueryIDDefault = "idDefault"
)

type HTMLPageHandler struct {
	pages services.HTMLPageService
	cors  *cors.Policy
}

func NewHTMLPageHandler(pages services.HTMLPageService, policy *cors.Policy) *HTMLPageHandler {
	return &HTMLPageHandler{pages: pages, cors: policy}
}

// Get serves GET /v{version}/htmlpage/{id}?idDefault={id}.
func (h *HTMLPageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.checkVersion(w, r) {
		return
	}

	h.cors.Apply(w.Header(), r)
	h.getV1(w, r, parseID(chi.URLParam(r, "id")), parseID(r.URL.Query().Get(QueryIDDefault)))
}

// Preflight serves OPTIONS on the same route: the CORS decision Get would
// make, answered with 204.
func (h *HTMLPageHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	if !h.checkVersion(w, r) {
		return
	}

	h.cors.Apply(w.Header(), r)
	w.WriteHeader(http.StatusNoContent)
}

// checkVersion writes the version 404 and reports false unless the route
// names Version1.
func (h *HTMLPageHandler) checkVersion(w http.ResponseWriter, r *http.Request) bool {
	raw := chi.URLParam(r, "version")
	if version, err := strconv.Atoi(raw); err == nil && version == Version1 {
		return true
	}
	logger.L().Error(ErrMsgVersionNotFound,
		zap.String("version", raw),
		zap.String("method", r.Method),
		zap.String("request_id", middleware.GetRequestID(r.Context())),
	)
	writeNotFound(w, ErrMsgVersionNotFound)
	return false
}

func (h *HTMLPageHandler) getV1(w http.ResponseWriter, r *http.Request, id, idDefault int) {
	page, err := h.pages.Resolve(r.Context(), id, idDefault)
	if err != nil {
		writeNotFound(w, services.ErrMsgResourceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, types.ContentResponse{Content: page.HTMLContent})
}

// parseID maps missing or malformed ids to 0, which never names a page.
func parseID(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
