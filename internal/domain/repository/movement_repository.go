package repository

import (
	"context"

	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
)

// MovementWithRefs movimiento junto con los nombres descriptivos del catálogo
// (solo presentación; la conciliación trabaja con las referencias crudas).
type MovementWithRefs struct {
	entity.Movement
	ProductSKU    string
	ProductName   string
	WarehouseName string
}

// MovementRepository define el puerto de persistencia para el libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetByIDForUpdate bloquea la fila del movimiento (SELECT FOR UPDATE).
	// Obligatorio en el flujo de edición: serializa reversión + reaplicación
	// frente a otros editores del mismo movimiento.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	// Delete elimina solo la fila del libro. Devuelve false si no existía.
	Delete(ctx context.Context, id string) (bool, error)
	GetWithRefs(ctx context.Context, id string) (*MovementWithRefs, error)
	// List devuelve movimientos con nombres de catálogo, más recientes primero.
	// category filtra por la categoría del producto; vacío = sin filtro.
	List(ctx context.Context, category string, limit, offset int) ([]MovementWithRefs, error)
}
