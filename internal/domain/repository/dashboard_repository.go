package repository

import (
	"context"
	"time"
)

// StockRow fila de proyección unida con el nombre del producto, para los
// widgets de stock del dashboard.
type StockRow struct {
	ProductID     string
	ProductSKU    string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	Quantity      int64
	LastUpdatedAt time.Time
}

// RecentMovementRow movimiento reciente unido con nombres de catálogo.
type RecentMovementRow struct {
	ID            string
	Kind          string
	Quantity      int64
	ProductName   string
	WarehouseName string
	OccurredAt    time.Time
}

// DashboardRepository define las consultas de solo lectura del dashboard.
// Las implementaciones no modifican datos. Las filas cuyo producto o bodega
// ya no existen se descartan vía INNER JOIN (tolerancia de capa de
// presentación, no una ruta de error).
type DashboardRepository interface {
	// CountMovements cuenta movimientos con occurred_at en [from, to).
	CountMovements(ctx context.Context, from, to time.Time) (int, error)
	// ListLowStock devuelve las filas con cantidad en [0, threshold].
	ListLowStock(ctx context.Context, threshold int64) ([]StockRow, error)
	// ListLowestStock devuelve las `limit` filas de menor cantidad, ascendente.
	ListLowestStock(ctx context.Context, limit int) ([]StockRow, error)
	// ListRecentMovements devuelve los `limit` movimientos más recientes.
	ListRecentMovements(ctx context.Context, limit int) ([]RecentMovementRow, error)
}
