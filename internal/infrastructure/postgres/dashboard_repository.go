package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el dashboard de inventario.
// Siempre va sobre el pool: no participa en transacciones de escritura.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del dashboard.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// CountMovements cuenta los movimientos con occurred_at en [from, to).
func (r *DashboardRepo) CountMovements(ctx context.Context, from, to time.Time) (int, error) {
	const query = `
		SELECT COUNT(*) FROM movements
		WHERE occurred_at >= $1 AND occurred_at < $2`
	var count int
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("dashboard.CountMovements: %w", err)
	}
	return count, nil
}

// ListLowStock devuelve las filas de proyección con cantidad en [0, threshold],
// unidas con el nombre del producto. El INNER JOIN descarta en silencio filas
// cuyo producto o bodega ya no existen (lenidad de presentación intencional).
func (r *DashboardRepo) ListLowStock(ctx context.Context, threshold int64) ([]repository.StockRow, error) {
	const query = `
		SELECT s.product_id, p.sku, p.name, s.warehouse_id, w.name, s.quantity, s.last_updated_at
		FROM stock_levels s
		JOIN products   p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id
		WHERE s.quantity >= 0 AND s.quantity <= $1
		ORDER BY s.quantity ASC`
	return r.queryStockRows(ctx, query, threshold)
}

// ListLowestStock devuelve las `limit` filas de menor cantidad, ascendente.
func (r *DashboardRepo) ListLowestStock(ctx context.Context, limit int) ([]repository.StockRow, error) {
	const query = `
		SELECT s.product_id, p.sku, p.name, s.warehouse_id, w.name, s.quantity, s.last_updated_at
		FROM stock_levels s
		JOIN products   p ON p.id = s.product_id
		JOIN warehouses w ON w.id = s.warehouse_id
		ORDER BY s.quantity ASC LIMIT $1`
	return r.queryStockRows(ctx, query, limit)
}

func (r *DashboardRepo) queryStockRows(ctx context.Context, query string, arg any) ([]repository.StockRow, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("dashboard stock rows: %w", err)
	}
	defer rows.Close()
	var list []repository.StockRow
	for rows.Next() {
		var row repository.StockRow
		if err := rows.Scan(
			&row.ProductID, &row.ProductSKU, &row.ProductName,
			&row.WarehouseID, &row.WarehouseName,
			&row.Quantity, &row.LastUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListRecentMovements devuelve los `limit` movimientos más recientes con
// nombres de catálogo, descendente por occurred_at.
func (r *DashboardRepo) ListRecentMovements(ctx context.Context, limit int) ([]repository.RecentMovementRow, error) {
	const query = `
		SELECT m.id, m.kind, m.quantity, p.name, w.name, m.occurred_at
		FROM movements m
		JOIN products   p ON p.id = m.product_id
		JOIN warehouses w ON w.id = m.warehouse_id
		ORDER BY m.occurred_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.ListRecentMovements: %w", err)
	}
	defer rows.Close()
	var list []repository.RecentMovementRow
	for rows.Next() {
		var row repository.RecentMovementRow
		if err := rows.Scan(&row.ID, &row.Kind, &row.Quantity,
			&row.ProductName, &row.WarehouseName, &row.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan recent movement: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
