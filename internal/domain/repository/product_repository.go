package repository

import "github.com/tu-usuario/almacen-ledger/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devolviendo nil es la respuesta "no resuelve" que consume el
// servicio de movimientos al validar referencias.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
