package reports

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReport struct {
	slug   string
	title  string
	result Result
	err    error
}

func (s stubReport) Slug() string  { return s.slug }
func (s stubReport) Title() string { return s.title }
func (s stubReport) Run(context.Context, url.Values) (Result, error) {
	return s.result, s.err
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubReport{slug: "account-statement", title: "Statement"}))

	report, ok := registry.Get("account-statement")
	require.True(t, ok)
	assert.Equal(t, "Statement", report.Title())

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubReport{slug: "dup"}))
	assert.Error(t, registry.Register(stubReport{slug: "dup"}))
}

func TestRegistryRejectsUnnamed(t *testing.T) {
	registry := NewRegistry()
	assert.Error(t, registry.Register(stubReport{}))
	assert.Error(t, registry.Register(nil))
}

func TestRegistrySlugsSorted(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(stubReport{slug: "zeta"}))
	require.NoError(t, registry.Register(stubReport{slug: "alpha"}))
	assert.Equal(t, []string{"alpha", "zeta"}, registry.Slugs())
}
