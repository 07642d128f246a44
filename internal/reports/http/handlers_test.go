package reporthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBSLPUNE/Bioprime/internal/platform/httpx"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

type stubReport struct {
	slug  string
	title string
	runs  int
	err   error
}

func (s *stubReport) Slug() string  { return s.slug }
func (s *stubReport) Title() string { return s.title }
func (s *stubReport) Run(_ context.Context, query url.Values) (reports.Result, error) {
	s.runs++
	if s.err != nil {
		return reports.Result{}, s.err
	}
	return reports.Result{
		Columns: []reports.Column{{Fieldname: "company", Label: "Company", Fieldtype: reports.FieldtypeData}},
		Rows:    []reports.Row{{"company": query.Get("company")}},
	}, nil
}

func newTestServer(t *testing.T, report *stubReport) *httptest.Server {
	t.Helper()
	registry := reports.NewRegistry()
	require.NoError(t, registry.Register(report))
	server := httptest.NewServer(NewHandler(registry, nil).Routes())
	t.Cleanup(server.Close)
	return server
}

func TestHandlerListsReports(t *testing.T) {
	server := newTestServer(t, &stubReport{slug: "account-statement", title: "Statement"})

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "account-statement", items[0].Slug)
	assert.Equal(t, "Statement", items[0].Title)
}

func TestHandlerRunsReport(t *testing.T) {
	report := &stubReport{slug: "account-statement"}
	server := newTestServer(t, report)

	resp, err := http.Get(server.URL + "/account-statement?company=Bioprime")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result reports.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Bioprime", result.Rows[0].String("company"))
	assert.Equal(t, 1, report.runs)
}

func TestHandlerUnknownSlug(t *testing.T) {
	server := newTestServer(t, &stubReport{slug: "account-statement"})

	resp, err := http.Get(server.URL + "/no-such-report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerValidationErrorMapsTo400(t *testing.T) {
	report := &stubReport{
		slug: "account-statement",
		err:  fmt.Errorf("%w: company is mandatory", httpx.ErrValidation),
	}
	server := newTestServer(t, report)

	resp, err := http.Get(server.URL + "/account-statement")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var problem httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Contains(t, problem.Detail, "company is mandatory")
}

func TestHandlerExportCSV(t *testing.T) {
	report := &stubReport{slug: "account-statement"}
	server := newTestServer(t, report)

	resp, err := http.Get(server.URL + "/account-statement/export.csv?company=Bioprime")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "account-statement.csv")
}
