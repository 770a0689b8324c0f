package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"

	"pokesearch/internal/metrics"
	"pokesearch/internal/middleware"
	"pokesearch/internal/render"
	"pokesearch/internal/search"
)

// SearchHandler exposes the search flow as JSON.
type SearchHandler struct {
	svc  *search.Service
	wait time.Duration
}

// NewSearchHandler creates a new API search handler. wait bounds how long a
// request blocks on a lookup before answering with the loading state.
func NewSearchHandler(svc *search.Service, wait time.Duration) *SearchHandler {
	return &SearchHandler{svc: svc, wait: wait}
}

// SubmitRequest is the body of POST /api/search.
type SubmitRequest struct {
	Name string `json:"name"`
}

// SubmitResponse is returned by POST /api/search.
type SubmitResponse struct {
	URL    string      `json:"url"`
	Recent []string    `json:"recent"`
	View   render.View `json:"view"`
}

// Pokemon returns the view for ?name= without touching recent searches.
func (h *SearchHandler) Pokemon(c fiber.Ctx) error {
	ctrl := h.svc.ForVisitor(middleware.VisitorID(c))
	ctrl.Load(string(c.Request().URI().QueryString()))

	return jsonSuccess(c, h.settle(c, ctrl))
}

// Submit runs a search as if the form had been submitted.
func (h *SearchHandler) Submit(c fiber.Ctx) error {
	var req SubmitRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	ctrl := h.svc.ForVisitor(middleware.VisitorID(c))
	url := ctrl.Submit(req.Name)
	if ctrl.HasSearch() {
		metrics.RecordSearch()
	}

	return jsonSuccess(c, SubmitResponse{
		URL:    url,
		Recent: ctrl.Recent(),
		View:   h.settle(c, ctrl),
	})
}

// Recent returns the visitor's recent searches.
func (h *SearchHandler) Recent(c fiber.Ctx) error {
	ctrl := h.svc.ForVisitor(middleware.VisitorID(c))
	return jsonSuccess(c, fiber.Map{
		"recent": ctrl.Recent(),
	})
}

func (h *SearchHandler) settle(c fiber.Ctx, ctrl *search.Controller) render.View {
	ctx, cancel := context.WithTimeout(c.Context(), h.wait)
	defer cancel()
	return ctrl.Settle(ctx)
}
