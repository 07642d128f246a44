package reporthttp

import (
	"context"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// exportRunner collapses concurrent identical export requests into a
// single report execution.
type exportRunner struct {
	group singleflight.Group
}

func newExportRunner() *exportRunner {
	return &exportRunner{}
}

func (e *exportRunner) run(ctx context.Context, report reports.Report, query url.Values) (reports.Result, error) {
	key := report.Slug() + "?" + query.Encode()
	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		return report.Run(ctx, query)
	})
	if err != nil {
		return reports.Result{}, err
	}
	return v.(reports.Result), nil
}
