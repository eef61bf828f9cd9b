// Package analytics contiene el agregador de solo lectura que alimenta el
// dashboard de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/tu-usuario/almacen-ledger/internal/application/dto"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
	"github.com/tu-usuario/almacen-ledger/pkg/config"
)

// DashboardUseCase genera el resumen del dashboard: movimientos de hoy, stock
// bajo, las claves de menor stock y los movimientos recientes.
//
// Sin ruta de escritura: no puede corromper estado. El umbral de stock bajo,
// los límites de los widgets y la zona horaria del corte diario llegan por
// configuración, no como literales en las consultas.
type DashboardUseCase struct {
	repo repository.DashboardRepository
	cfg  config.DashboardConfig
	loc  *time.Location
	now  func() time.Time
}

// NewDashboardUseCase construye el agregador. Falla si la zona horaria de
// reporte configurada no existe.
func NewDashboardUseCase(repo repository.DashboardRepository, cfg config.DashboardConfig) (*DashboardUseCase, error) {
	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("dashboard: zona horaria %q: %w", cfg.ReportTimezone, err)
	}
	return &DashboardUseCase{repo: repo, cfg: cfg, loc: loc, now: time.Now}, nil
}

// SetClock reemplaza la fuente de tiempo. Solo para tests.
func (uc *DashboardUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// GetSummary construye el DashboardSummaryDTO al momento de la consulta.
//
// Cuatro consultas en paralelo:
//  1. CountMovements([medianoche local, +24h))  → MovementsToday
//  2. ListLowStock(umbral)                      → LowStockItems
//  3. ListLowestStock(límite)                   → Top5LowestStock
//  4. ListRecentMovements(límite)               → RecentMovements
func (uc *DashboardUseCase) GetSummary(ctx context.Context, tag language.Tag) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	// Día local de reporte: [00:00, 24:00). Un movimiento a las 23:59 de ayer
	// queda fuera; uno a las 00:01 de hoy queda dentro.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	type countResult struct {
		count int
		err   error
	}
	type stockResult struct {
		rows []repository.StockRow
		err  error
	}
	type recentResult struct {
		rows []repository.RecentMovementRow
		err  error
	}

	todayCh := make(chan countResult, 1)
	lowCh := make(chan stockResult, 1)
	lowestCh := make(chan stockResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		n, err := uc.repo.CountMovements(ctx, dayStart, dayEnd)
		todayCh <- countResult{n, err}
	}()
	go func() {
		rows, err := uc.repo.ListLowStock(ctx, uc.cfg.LowStockThreshold)
		lowCh <- stockResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.ListLowestStock(ctx, uc.cfg.TopLowestLimit)
		lowestCh <- stockResult{rows, err}
	}()
	go func() {
		rows, err := uc.repo.ListRecentMovements(ctx, uc.cfg.RecentLimit)
		recentCh <- recentResult{rows, err}
	}()

	today := <-todayCh
	low := <-lowCh
	lowest := <-lowestCh
	recent := <-recentCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", today.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if lowest.err != nil {
		return nil, fmt.Errorf("dashboard: menor stock: %w", lowest.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", recent.err)
	}

	return &dto.DashboardSummaryDTO{
		MovementsToday:  today.count,
		LowStockItems:   toStockItems(low.rows),
		Top5LowestStock: toStockItems(lowest.rows),
		RecentMovements: toRecentMovements(recent.rows),
		DateLabel:       dto.MonthLabel(now, tag),
	}, nil
}

func toStockItems(rows []repository.StockRow) []dto.DashboardStockItemDTO {
	out := make([]dto.DashboardStockItemDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DashboardStockItemDTO{
			ProductID:     r.ProductID,
			ProductSKU:    r.ProductSKU,
			ProductName:   r.ProductName,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			Quantity:      r.Quantity,
			LastUpdatedAt: r.LastUpdatedAt,
		})
	}
	return out
}

func toRecentMovements(rows []repository.RecentMovementRow) []dto.DashboardMovementDTO {
	out := make([]dto.DashboardMovementDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DashboardMovementDTO{
			ID:            r.ID,
			Kind:          r.Kind,
			Quantity:      r.Quantity,
			ProductName:   r.ProductName,
			WarehouseName: r.WarehouseName,
			OccurredAt:    r.OccurredAt,
		})
	}
	return out
}
