package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
)

// StockLevelRepository define el puerto sobre la proyección de stock.
//
// ApplyDelta es la única vía de mutación: un solo statement atómico que crea
// la fila en 0 si no existe y le suma el delta, serializado por PostgreSQL a
// nivel de fila. Nunca leer-en-memoria-sumar-escribir: ese patrón pierde
// actualizaciones bajo escritores concurrentes de la misma clave.
type StockLevelRepository interface {
	// ApplyDelta suma delta (con signo) a la clave y devuelve la fila resultante.
	ApplyDelta(ctx context.Context, productID, warehouseID string, delta int64, at time.Time) (*entity.StockLevel, error)
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockLevel, error)
	List(ctx context.Context, limit, offset int) ([]*entity.StockLevel, error)
}
