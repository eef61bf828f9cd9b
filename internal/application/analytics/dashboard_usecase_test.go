package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/tu-usuario/almacen-ledger/internal/application/analytics"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
	"github.com/tu-usuario/almacen-ledger/pkg/config"
)

// fakeDashboardRepo captura los argumentos de cada consulta y devuelve datos fijos.
type fakeDashboardRepo struct {
	mu sync.Mutex

	countFrom, countTo time.Time
	lowThreshold       int64
	lowestLimit        int
	recentLimit        int

	movementsToday int
	lowRows        []repository.StockRow
	lowestRows     []repository.StockRow
	recentRows     []repository.RecentMovementRow

	countErr error
}

func (f *fakeDashboardRepo) CountMovements(_ context.Context, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countFrom, f.countTo = from, to
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.movementsToday, nil
}

func (f *fakeDashboardRepo) ListLowStock(_ context.Context, threshold int64) ([]repository.StockRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowThreshold = threshold
	return f.lowRows, nil
}

func (f *fakeDashboardRepo) ListLowestStock(_ context.Context, limit int) ([]repository.StockRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowestLimit = limit
	return f.lowestRows, nil
}

func (f *fakeDashboardRepo) ListRecentMovements(_ context.Context, limit int) ([]repository.RecentMovementRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recentLimit = limit
	return f.recentRows, nil
}

func testConfig() config.DashboardConfig {
	return config.DashboardConfig{
		LowStockThreshold: 10,
		TopLowestLimit:    5,
		RecentLimit:       6,
		ReportTimezone:    "America/Bogota",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newUC(t *testing.T, repo *fakeDashboardRepo, now time.Time) *analytics.DashboardUseCase {
	t.Helper()
	uc, err := analytics.NewDashboardUseCase(repo, testConfig())
	require.NoError(t, err)
	uc.SetClock(fixedClock(now))
	return uc
}

func TestGetSummary_VentanaDelDiaLocal(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	repo := &fakeDashboardRepo{movementsToday: 3}
	// 2026-08-29 14:30 hora de Bogotá
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, bogota)
	uc := newUC(t, repo, now)

	_, err = uc.GetSummary(context.Background(), language.Spanish)
	require.NoError(t, err)

	wantStart := time.Date(2026, 8, 29, 0, 0, 0, 0, bogota)
	assert.True(t, repo.countFrom.Equal(wantStart), "from debe ser la medianoche local: %v", repo.countFrom)
	assert.True(t, repo.countTo.Equal(wantStart.Add(24*time.Hour)), "to debe ser medianoche + 24h: %v", repo.countTo)
}

// Un movimiento a las 23:59 de ayer queda fuera de la ventana; uno a las 00:01
// de hoy queda dentro. La ventana es [medianoche, medianoche+24h).
func TestGetSummary_BordesDeLaVentana(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	repo := &fakeDashboardRepo{}
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, bogota)
	uc := newUC(t, repo, now)

	_, err = uc.GetSummary(context.Background(), language.Spanish)
	require.NoError(t, err)

	ayer2359 := time.Date(2026, 8, 28, 23, 59, 0, 0, bogota)
	hoy0001 := time.Date(2026, 8, 29, 0, 1, 0, 0, bogota)

	inWindow := func(ts time.Time) bool {
		return !ts.Before(repo.countFrom) && ts.Before(repo.countTo)
	}
	assert.False(t, inWindow(ayer2359), "23:59 de ayer no cuenta como hoy")
	assert.True(t, inWindow(hoy0001), "00:01 de hoy sí cuenta")
}

func TestGetSummary_UsaLimitesConfigurados(t *testing.T) {
	repo := &fakeDashboardRepo{}
	uc := newUC(t, repo, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	_, err := uc.GetSummary(context.Background(), language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, int64(10), repo.lowThreshold)
	assert.Equal(t, 5, repo.lowestLimit)
	assert.Equal(t, 6, repo.recentLimit)
}

func TestGetSummary_MapeaFilasADTO(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	repo := &fakeDashboardRepo{
		movementsToday: 7,
		lowRows: []repository.StockRow{
			{ProductID: "p1", ProductSKU: "SKU-1", ProductName: "Tornillo", WarehouseID: "w1", WarehouseName: "Central", Quantity: 2, LastUpdatedAt: at},
		},
		lowestRows: []repository.StockRow{
			{ProductID: "p2", ProductName: "Cable", Quantity: -4},
		},
		recentRows: []repository.RecentMovementRow{
			{ID: "m1", Kind: "EGRESS", Quantity: 3, ProductName: "Cable", WarehouseName: "Central", OccurredAt: at},
		},
	}
	uc := newUC(t, repo, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	out, err := uc.GetSummary(context.Background(), language.Spanish)
	require.NoError(t, err)

	assert.Equal(t, 7, out.MovementsToday)
	require.Len(t, out.LowStockItems, 1)
	assert.Equal(t, "SKU-1", out.LowStockItems[0].ProductSKU)
	require.Len(t, out.Top5LowestStock, 1)
	assert.Equal(t, int64(-4), out.Top5LowestStock[0].Quantity, "el stock negativo se muestra tal cual")
	require.Len(t, out.RecentMovements, 1)
	assert.Equal(t, "EGRESS", out.RecentMovements[0].Kind)
	assert.Equal(t, "agosto 2026", out.DateLabel)
}

func TestGetSummary_EtiquetaDeMesEnIngles(t *testing.T) {
	repo := &fakeDashboardRepo{}
	uc := newUC(t, repo, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	out, err := uc.GetSummary(context.Background(), language.English)
	require.NoError(t, err)
	assert.Equal(t, "August 2026", out.DateLabel)
}

func TestGetSummary_PropagaErrorDeConsulta(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &fakeDashboardRepo{countErr: boom}
	uc := newUC(t, repo, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))

	_, err := uc.GetSummary(context.Background(), language.Spanish)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewDashboardUseCase_ZonaHorariaInvalida(t *testing.T) {
	cfg := testConfig()
	cfg.ReportTimezone = "America/Nada"
	_, err := analytics.NewDashboardUseCase(&fakeDashboardRepo{}, cfg)
	assert.Error(t, err)
}
