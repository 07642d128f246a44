// Package stockbalance implements the warehouse stock balance report: a
// warehouse tree with per-warehouse stock value, territory attribution
// and balances rolled up into parent warehouses.
package stockbalance

import "net/url"

// Filters are the report's parsed query parameters. An empty territory
// covers every warehouse.
type Filters struct {
	Company      string `validate:"required"`
	Territory    string
	ShowDisabled bool
}

// ParseFilters reads the report's query parameters.
func ParseFilters(query url.Values) Filters {
	show := query.Get("show_disabled_warehouses")
	return Filters{
		Company:      query.Get("company"),
		Territory:    query.Get("territory"),
		ShowDisabled: show == "1" || show == "true" || show == "on",
	}
}

// Warehouse is one node of the report tree. Indent is its depth under
// the group warehouses present in the result.
type Warehouse struct {
	Name         string
	Parent       string
	IsGroup      bool
	Disabled     bool
	StockBalance float64
	Territory    string
	Indent       int
}
