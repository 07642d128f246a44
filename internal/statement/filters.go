package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/IBSLPUNE/Bioprime/internal/ledger"
	"github.com/IBSLPUNE/Bioprime/internal/platform/httpx"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", httpx.ErrValidation, fmt.Sprintf(format, args...))
}

// validateFilters applies the struct rules plus the cross-field ones that
// need the chart of accounts and party master behind them.
func validateFilters(ctx context.Context, v *validator.Validate, store LedgerStore, f Filters) error {
	if err := v.StructCtx(ctx, f); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
		}
		return err
	}
	if f.FromDate.After(f.ToDate) {
		return invalid("from date %s is after to date %s",
			f.FromDate.Format(dateLayout), f.ToDate.Format(dateLayout))
	}
	if f.VoucherNo != "" && f.CategorizeBy == ByVoucher {
		return invalid("voucher number filter cannot be combined with categorize by voucher")
	}

	if len(f.Accounts) > 0 {
		accounts, err := store.AccountMap(ctx, f.Company)
		if err != nil {
			return err
		}
		for _, name := range f.Accounts {
			acc, ok := accounts[name]
			if !ok {
				return invalid("account %s does not exist", name)
			}
			if f.CategorizeBy == ByAccount && !acc.IsGroup {
				return invalid("cannot filter on child account %s when categorizing by account", name)
			}
		}
	}

	if f.PartyType != "" {
		for _, party := range f.Parties {
			ok, err := store.PartyExists(ctx, f.PartyType, party)
			if err != nil {
				return err
			}
			if !ok {
				return invalid("invalid %s: %s", f.PartyType, party)
			}
		}
	}
	return nil
}

// expandAccountFilter resolves account filters through the nested-set
// tree so group accounts cover their leaf children. A missing account at
// this point is a validation failure, not a server fault.
func expandAccountFilter(ctx context.Context, store LedgerStore, f Filters) ([]string, error) {
	if len(f.Accounts) == 0 {
		return nil, nil
	}
	expanded, err := store.ExpandAccounts(ctx, f.Company, f.Accounts)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error())
	}
	if err != nil {
		return nil, err
	}
	return expanded, nil
}
