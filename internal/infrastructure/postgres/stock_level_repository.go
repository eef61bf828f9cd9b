package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// ApplyDelta suma delta a la clave (producto, bodega) en un solo statement.
// El ON CONFLICT cubre la creación perezosa en 0; el UPDATE con
// `quantity = quantity + delta` deja la serialización por clave en manos del
// bloqueo de fila de PostgreSQL. Claves distintas no se bloquean entre sí.
func (r *StockLevelRepo) ApplyDelta(ctx context.Context, productID, warehouseID string, delta int64, at time.Time) (*entity.StockLevel, error) {
	query := `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, last_updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity,
		              last_updated_at = EXCLUDED.last_updated_at
		RETURNING product_id, warehouse_id, quantity, last_updated_at`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID, warehouseID, delta, at).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	return &s, nil
}

// Get obtiene la fila de proyección de una clave; nil si nunca fue tocada.
func (r *StockLevelRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, last_updated_at
		FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &s, nil
}

// List lista la proyección completa con paginación, actualizadas primero.
func (r *StockLevelRepo) List(ctx context.Context, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, last_updated_at
		FROM stock_levels
		ORDER BY last_updated_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
