package stockbalance

import (
	"context"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBSLPUNE/Bioprime/internal/observability"
	"github.com/IBSLPUNE/Bioprime/internal/platform/httpx"
	"github.com/IBSLPUNE/Bioprime/internal/reports"
)

type mockStore struct {
	warehouses  []Warehouse
	balances    map[string]float64
	territories map[string]string

	warehouseCalls int
	lastDisabled   bool
	lastTerritory  string
}

func (m *mockStore) Warehouses(_ context.Context, _ string, includeDisabled bool) ([]Warehouse, error) {
	m.warehouseCalls++
	m.lastDisabled = includeDisabled
	out := make([]Warehouse, len(m.warehouses))
	copy(out, m.warehouses)
	return out, nil
}

func (m *mockStore) Balances(context.Context, string) (map[string]float64, error) {
	return m.balances, nil
}

func (m *mockStore) Territories(_ context.Context, territory string) (map[string]string, error) {
	m.lastTerritory = territory
	if territory == "" {
		return m.territories, nil
	}
	scoped := make(map[string]string)
	for w, t := range m.territories {
		if t == territory {
			scoped[w] = t
		}
	}
	return scoped, nil
}

func newFixtureStore() *mockStore {
	return &mockStore{
		warehouses: fixtureTree(),
		balances: map[string]float64{
			"Pune Store A - BP": 120,
			"Pune Store B - BP": 80,
			"Nashik - BP":       50,
		},
		territories: map[string]string{
			"Pune Store A - BP": "Pune Cluster",
			"Pune Store B - BP": "Pune Cluster",
			"Nashik - BP":       "Nashik Cluster",
		},
	}
}

func newTestService(t *testing.T, store *mockStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := reports.NewCache(client, time.Minute)
	return NewService(store, cache, observability.NewMetrics(), slog.Default())
}

func TestServiceExecuteRollsUpTree(t *testing.T) {
	store := newFixtureStore()
	// Fixture balances live on the store, not on the warehouse rows.
	for i := range store.warehouses {
		store.warehouses[i].StockBalance = 0
	}
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), Filters{Company: "Bioprime"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 5)
	assert.Len(t, result.Columns, 3)

	root := result.Rows[0]
	assert.Equal(t, "All Warehouses - BP", root.String("name"))
	assert.Equal(t, 250.0, root.Float("stock_balance"))
	assert.Equal(t, 0.0, root.Float("indent"))

	pune := result.Rows[1]
	assert.Equal(t, 200.0, pune.Float("stock_balance"))
	assert.Equal(t, 1.0, pune.Float("indent"))

	storeA := result.Rows[2]
	assert.Equal(t, 120.0, storeA.Float("stock_balance"))
	assert.Equal(t, "Pune Cluster", storeA.String("territory"))
}

func TestServiceExecuteTerritoryScope(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), Filters{Company: "Bioprime", Territory: "Pune Cluster"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	for _, r := range result.Rows {
		assert.Equal(t, "Pune Cluster", r.String("territory"))
	}
	assert.Equal(t, "Pune Cluster", store.lastTerritory)
}

func TestServiceExecuteShowDisabledColumn(t *testing.T) {
	store := newFixtureStore()
	store.warehouses = append(store.warehouses, Warehouse{
		Name: "Mothballed - BP", Parent: "All Warehouses - BP", Disabled: true,
	})
	svc := newTestService(t, store)

	result, err := svc.Execute(context.Background(), Filters{Company: "Bioprime", ShowDisabled: true})
	require.NoError(t, err)
	assert.True(t, store.lastDisabled)
	require.Len(t, result.Columns, 4)
	assert.Equal(t, "disabled", result.Columns[3].Fieldname)

	var disabledRow reports.Row
	for _, r := range result.Rows {
		if r.String("name") == "Mothballed - BP" {
			disabledRow = r
		}
	}
	require.NotNil(t, disabledRow)
	assert.Equal(t, true, disabledRow["disabled"])
}

func TestServiceExecuteCaches(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(t, store)
	f := Filters{Company: "Bioprime"}

	_, err := svc.Execute(context.Background(), f)
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, store.warehouseCalls)
}

func TestServiceExecuteRequiresCompany(t *testing.T) {
	svc := newTestService(t, newFixtureStore())
	_, err := svc.Execute(context.Background(), Filters{})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestServiceRunParsesQuery(t *testing.T) {
	svc := newTestService(t, newFixtureStore())
	query := url.Values{}
	query.Set("company", "Bioprime")
	query.Set("territory", "Nashik Cluster")

	result, err := svc.Run(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Nashik - BP", result.Rows[0].String("name"))
}
