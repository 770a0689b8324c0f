package search

import (
	"pokesearch/internal/recent"
	"pokesearch/internal/render"
)

// Service hands out controllers that share one lookup cache and renderer
// but keep recent searches per visitor.
type Service struct {
	lookup   Lookup
	backend  recent.Backend
	renderer *render.Renderer
}

// NewService creates a service.
func NewService(lookup Lookup, backend recent.Backend, renderer *render.Renderer) *Service {
	return &Service{lookup: lookup, backend: backend, renderer: renderer}
}

// ForVisitor returns a controller with the visitor's recent searches loaded.
func (s *Service) ForVisitor(visitor string) *Controller {
	store := recent.NewStore(s.backend, recent.KeyFor(visitor))
	store.Load()
	return NewController(s.lookup, store, s.renderer)
}
