package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste una entrada del libro de movimientos.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, kind, quantity, product_id, warehouse_id, occurred_at, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.Kind, movement.Quantity,
		movement.ProductID, movement.WarehouseID,
		movement.OccurredAt, movement.Description, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate obtiene el movimiento y bloquea su fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, true)
}

func (r *MovementRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Movement, error) {
	query := `
		SELECT id, kind, quantity, product_id, warehouse_id, occurred_at, description, created_by
		FROM movements WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var m entity.Movement
	var createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Kind, &m.Quantity, &m.ProductID, &m.WarehouseID,
		&m.OccurredAt, &m.Description, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// Update actualiza kind, quantity y description de un movimiento existente.
// Las referencias y occurred_at son inmutables después de creado.
func (r *MovementRepo) Update(ctx context.Context, movement *entity.Movement) error {
	query := `
		UPDATE movements SET kind = $2, quantity = $3, description = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		movement.ID, movement.Kind, movement.Quantity, movement.Description,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update movement %s: fila no encontrada", movement.ID)
	}
	return nil
}

// Delete elimina la fila del libro. No toca la proyección de stock.
func (r *MovementRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movement: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// GetWithRefs obtiene un movimiento unido con nombres de producto y bodega.
func (r *MovementRepo) GetWithRefs(ctx context.Context, id string) (*repository.MovementWithRefs, error) {
	query := `
		SELECT m.id, m.kind, m.quantity, m.product_id, m.warehouse_id,
		       m.occurred_at, m.description, m.created_by,
		       p.sku, p.name, w.name
		FROM movements m
		JOIN products   p ON p.id = m.product_id
		JOIN warehouses w ON w.id = m.warehouse_id
		WHERE m.id = $1`
	var row repository.MovementWithRefs
	var createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Kind, &row.Quantity, &row.ProductID, &row.WarehouseID,
		&row.OccurredAt, &row.Description, &createdBy,
		&row.ProductSKU, &row.ProductName, &row.WarehouseName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement with refs: %w", err)
	}
	if createdBy != nil {
		row.CreatedBy = *createdBy
	}
	return &row, nil
}

// List lista movimientos con nombres de catálogo, más recientes primero.
// category filtra por la categoría del producto (vacío = todos).
func (r *MovementRepo) List(ctx context.Context, category string, limit, offset int) ([]repository.MovementWithRefs, error) {
	query := `
		SELECT m.id, m.kind, m.quantity, m.product_id, m.warehouse_id,
		       m.occurred_at, m.description, m.created_by,
		       p.sku, p.name, w.name
		FROM movements m
		JOIN products   p ON p.id = m.product_id
		JOIN warehouses w ON w.id = m.warehouse_id`
	args := []any{}
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" WHERE p.category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY m.occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementWithRefs
	for rows.Next() {
		var row repository.MovementWithRefs
		var createdBy *string
		if err := rows.Scan(&row.ID, &row.Kind, &row.Quantity, &row.ProductID, &row.WarehouseID,
			&row.OccurredAt, &row.Description, &createdBy,
			&row.ProductSKU, &row.ProductName, &row.WarehouseName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			row.CreatedBy = *createdBy
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
