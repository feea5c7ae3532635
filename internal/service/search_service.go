package service

import (
	"context"
	"fmt"
)

// SearchService runs a single search pass and waits for its result
type SearchService struct {
	sources Sources
	opts    []Option
}

// NewSearchService creates a new search service
func NewSearchService(sources Sources, opts ...Option) *SearchService {
	return &SearchService{sources: sources, opts: opts}
}

// Search runs one pass for query on a dedicated orchestrator
func (s *SearchService) Search(ctx context.Context, query string) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, fmt.Errorf("service: query cannot be empty")
	}

	results := make(chan SearchResult, 1)
	opts := append(append([]Option(nil), s.opts...), WithContext(ctx))
	o := NewOrchestrator(s.sources, func(r SearchResult) { results <- r }, opts...)
	o.Submit(query)

	select {
	case r := <-results:
		return r, nil
	case <-ctx.Done():
		return SearchResult{}, fmt.Errorf("service: search interrupted: %w", ctx.Err())
	}
}

// NewOrchestrator creates a live orchestrator sharing this service's options
func (s *SearchService) NewOrchestrator(sources Sources, sink Sink, opts ...Option) *Orchestrator {
	return NewOrchestrator(sources, sink, append(append([]Option(nil), s.opts...), opts...)...)
}

// Sources returns the configured sources
func (s *SearchService) Sources() Sources {
	return s.sources
}
