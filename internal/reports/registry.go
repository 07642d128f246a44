package reports

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
)

// Report is the plugin contract implemented by each report module. Run
// parses and validates the raw query filters itself so the engine stays
// agnostic of per-report filter shapes.
type Report interface {
	Slug() string
	Title() string
	Run(ctx context.Context, query url.Values) (Result, error)
}

// Registry resolves report slugs to registered report modules.
type Registry struct {
	mu      sync.RWMutex
	reports map[string]Report
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{reports: make(map[string]Report)}
}

// Register adds a report module. Registering the same slug twice is a
// wiring bug and fails loudly.
func (r *Registry) Register(report Report) error {
	if report == nil || report.Slug() == "" {
		return fmt.Errorf("reports: cannot register unnamed report")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[report.Slug()]; exists {
		return fmt.Errorf("reports: duplicate report %q", report.Slug())
	}
	r.reports[report.Slug()] = report
	return nil
}

// Get resolves a slug to its report module.
func (r *Registry) Get(slug string) (Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[slug]
	return report, ok
}

// Slugs lists registered report slugs in stable order.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.reports))
	for slug := range r.reports {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
