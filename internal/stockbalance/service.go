package stockbalance

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/IBSLPUNE/Bioprime/internal/observability"
	"github.com/IBSLPUNE/Bioprime/internal/platform/httpx"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// ReportSlug identifies the report in the registry and in URLs.
const ReportSlug = "warehouse-stock-balance"

// WarehouseStore is the data access the report needs.
type WarehouseStore interface {
	Warehouses(ctx context.Context, company string, includeDisabled bool) ([]Warehouse, error)
	Balances(ctx context.Context, company string) (map[string]float64, error)
	Territories(ctx context.Context, territory string) (map[string]string, error)
}

// Service runs the warehouse stock balance report.
type Service struct {
	store    WarehouseStore
	cache    *reports.Cache
	metrics  *observability.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService wires the report service.
func NewService(store WarehouseStore, cache *reports.Cache, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		cache:    cache,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger,
	}
}

// Slug implements reports.Report.
func (s *Service) Slug() string { return ReportSlug }

// Title implements reports.Report.
func (s *Service) Title() string { return "Warehouse Wise Stock Balance" }

// Run implements reports.Report.
func (s *Service) Run(ctx context.Context, query url.Values) (reports.Result, error) {
	return s.Execute(ctx, ParseFilters(query))
}

// Execute validates the filters and produces the report.
func (s *Service) Execute(ctx context.Context, f Filters) (reports.Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	result, err := s.execute(ctx, f)
	s.metrics.ObserveReport(ReportSlug, time.Since(start), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "stock balance failed",
			slog.String("run_id", runID),
			slog.String("company", f.Company),
			slog.Any("error", err))
		return reports.Result{}, err
	}
	s.logger.InfoContext(ctx, "stock balance built",
		slog.String("run_id", runID),
		slog.String("company", f.Company),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *Service) execute(ctx context.Context, f Filters) (reports.Result, error) {
	if err := s.validate.StructCtx(ctx, f); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return reports.Result{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
		}
		return reports.Result{}, err
	}
	token := fmt.Sprintf("%s|%s|%t", f.Company, f.Territory, f.ShowDisabled)
	key, err := s.cache.BuildKey(ctx, reports.ResultKey(ReportSlug, token)...)
	if err != nil {
		return reports.Result{}, err
	}
	var result reports.Result
	err = s.cache.FetchJSON(ctx, key, &result, func(ctx context.Context) (interface{}, error) {
		return s.load(ctx, f)
	})
	return result, err
}

func (s *Service) load(ctx context.Context, f Filters) (reports.Result, error) {
	var (
		warehouses  []Warehouse
		balances    map[string]float64
		territories map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		warehouses, err = s.store.Warehouses(gctx, f.Company, f.ShowDisabled)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = s.store.Balances(gctx, f.Company)
		return err
	})
	g.Go(func() error {
		var err error
		territories, err = s.store.Territories(gctx, f.Territory)
		return err
	})
	if err := g.Wait(); err != nil {
		return reports.Result{}, err
	}

	if f.Territory != "" {
		kept := warehouses[:0]
		for _, w := range warehouses {
			if territories[w.Name] == f.Territory {
				kept = append(kept, w)
			}
		}
		warehouses = kept
	}

	for i := range warehouses {
		warehouses[i].StockBalance = balances[warehouses[i].Name]
		warehouses[i].Territory = territories[warehouses[i].Name]
	}

	applyIndent(warehouses)
	rollupBalances(warehouses)

	rows := make([]reports.Row, 0, len(warehouses))
	for _, w := range warehouses {
		row := reports.Row{
			"name":          w.Name,
			"stock_balance": w.StockBalance,
			"territory":     w.Territory,
			"indent":        w.Indent,
		}
		if w.Parent != "" {
			row["parent_warehouse"] = w.Parent
		}
		if f.ShowDisabled {
			row["disabled"] = w.Disabled
		}
		rows = append(rows, row)
	}

	return reports.Result{Columns: columns(f), Rows: rows}, nil
}
