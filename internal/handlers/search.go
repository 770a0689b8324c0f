package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"pokesearch/internal/config"
	"pokesearch/internal/metrics"
	"pokesearch/internal/middleware"
	"pokesearch/internal/render"
	"pokesearch/internal/search"
)

// SearchHandler serves the search page.
type SearchHandler struct {
	svc *search.Service
	cfg *config.Config
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *search.Service, cfg *config.Config) *SearchHandler {
	return &SearchHandler{svc: svc, cfg: cfg}
}

// Index renders the page for the URL's name parameter. It waits up to
// RenderWait for the lookup; a page still loading after that refreshes itself.
func (h *SearchHandler) Index(c fiber.Ctx) error {
	ctrl := h.svc.ForVisitor(middleware.VisitorID(c))
	ctrl.Load(string(c.Request().URI().QueryString()))

	ctx, cancel := context.WithTimeout(c.Context(), h.cfg.RenderWait)
	defer cancel()
	view := ctrl.Settle(ctx)

	title := "Search"
	if view.Card != nil {
		title = view.Card.Name
	} else if view.Term != "" {
		title = view.Term
	}

	return c.Render("index", MergeBranding(fiber.Map{
		"Title":   title,
		"View":    view,
		"State":   view.State.String(),
		"Draft":   ctrl.Draft(),
		"Recent":  ctrl.Recent(),
		"Return":  returnQuery(ctrl.Query()),
		"Refresh": view.State == render.Loading,
	}, h.cfg))
}

// Submit handles the search form, recent-search buttons and evolution
// buttons. It redirects to the URL for the submitted term.
func (h *SearchHandler) Submit(c fiber.Ctx) error {
	ctrl := h.svc.ForVisitor(middleware.VisitorID(c))
	ctrl.Navigate(c.FormValue("return"))

	next := ctrl.Submit(c.FormValue("name"))
	if ctrl.HasSearch() {
		metrics.RecordSearch()
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To(next)
}
