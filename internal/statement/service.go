package statement

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/IBSLPUNE/Bioprime/internal/ledger"
	"github.com/IBSLPUNE/Bioprime/internal/observability"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

// ReportSlug identifies the report in the registry and in URLs.
const ReportSlug = "account-statement"

// LedgerStore is the ledger access the report needs.
type LedgerStore interface {
	ListEntries(ctx context.Context, q ledger.EntryQuery) ([]ledger.Entry, error)
	AccountMap(ctx context.Context, company string) (map[string]ledger.Account, error)
	ExpandAccounts(ctx context.Context, company string, names []string) ([]string, error)
	PartyExists(ctx context.Context, partyType, name string) (bool, error)
	OutstandingInvoices(ctx context.Context, company string, asOf time.Time) ([]ledger.OutstandingInvoice, error)
	CompanyCurrency(ctx context.Context, company string) (string, error)
}

// Service runs the account statement report.
type Service struct {
	store    LedgerStore
	cache    *reports.Cache
	metrics  *observability.Metrics
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService wires the report service.
func NewService(store LedgerStore, cache *reports.Cache, metrics *observability.Metrics, logger *slog.Logger) *Service {
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
func (s *Service) Title() string { return "Customer Account Statement (Ageing)" }

// Run implements reports.Report: parse the raw query and execute.
func (s *Service) Run(ctx context.Context, query url.Values) (reports.Result, error) {
	return s.Execute(ctx, ParseFilters(query))
}

// Execute validates the filters and produces the report, serving from
// the versioned cache when possible.
func (s *Service) Execute(ctx context.Context, f Filters) (reports.Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	result, err := s.execute(ctx, f)
	s.metrics.ObserveReport(ReportSlug, time.Since(start), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "account statement failed",
			slog.String("run_id", runID),
			slog.String("company", f.Company),
			slog.Any("error", err))
		return reports.Result{}, err
	}
	s.logger.InfoContext(ctx, "account statement built",
		slog.String("run_id", runID),
		slog.String("company", f.Company),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (s *Service) execute(ctx context.Context, f Filters) (reports.Result, error) {
	if err := validateFilters(ctx, s.validate, s.store, f); err != nil {
		return reports.Result{}, err
	}
	key, err := s.cache.BuildKey(ctx, reports.ResultKey(ReportSlug, f.cacheToken())...)
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
	accounts, err := expandAccountFilter(ctx, s.store, f)
	if err != nil {
		return reports.Result{}, err
	}

	receivable, err := s.isReceivableReport(ctx, f)
	if err != nil {
		return reports.Result{}, err
	}

	var (
		entries  []ledger.Entry
		invoices []ledger.OutstandingInvoice
		currency string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.store.ListEntries(gctx, f.entryQuery(accounts))
		return err
	})
	g.Go(func() error {
		var err error
		currency, err = s.store.CompanyCurrency(gctx, f.Company)
		return err
	})
	if receivable {
		g.Go(func() error {
			var err error
			invoices, err = s.store.OutstandingInvoices(gctx, f.Company, f.ToDate)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return reports.Result{}, err
	}

	aged := map[string]agedInvoice{}
	if receivable {
		aged = ageReceivables(invoices, f.ToDate)
	}

	return reports.Result{
		Columns: columns(f, currency),
		Rows:    build(f, entries, aged),
	}, nil
}

// isReceivableReport decides whether aging applies: either the filter
// targets customers directly, or one of the filtered accounts is a
// receivable account.
func (s *Service) isReceivableReport(ctx context.Context, f Filters) (bool, error) {
	if f.PartyType == "Customer" {
		return true, nil
	}
	if len(f.Accounts) == 0 {
		return false, nil
	}
	accounts, err := s.store.AccountMap(ctx, f.Company)
	if err != nil {
		return false, err
	}
	for _, name := range f.Accounts {
		if accounts[name].Receivable() {
			return true, nil
		}
	}
	return false, nil
}

// cacheToken is a stable digest over every filter the result depends on.
func (f Filters) cacheToken() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%s|%s|%s|%t|%t|%t",
		f.Company,
		f.FromDate.Format(dateLayout),
		f.ToDate.Format(dateLayout),
		f.PartyType,
		f.VoucherNo,
		f.AgainstVoucherNo,
		f.CategorizeBy,
		strings.Join(f.Accounts, ","),
		f.ShowOpeningEntries,
		f.ShowCancelledEntries,
		f.ShowRemarks,
	)
	fmt.Fprintf(&b, "|%s|%s|%s",
		strings.Join(f.Parties, ","),
		strings.Join(f.CostCenters, ","),
		strings.Join(f.Projects, ","))
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
