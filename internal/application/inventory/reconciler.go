package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-ledger/internal/domain"
	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

// Reconciler es el motor de conciliación: el único componente que muta la
// proyección de stock. Aplica el efecto con signo de un movimiento sobre la
// clave (producto, bodega).
//
// La reversión se expresa llamando ApplyEffect con el tipo invertido y la
// misma cantidad; el flujo de edición del servicio de movimientos depende de
// esa simetría, no existe un primitivo de undo aparte.
//
// Se construye sobre el StockLevelRepository atado a la transacción en curso;
// la serialización por clave la da el statement atómico del repositorio, por
// lo que llamadas concurrentes sobre claves distintas no se bloquean entre sí.
type Reconciler struct {
	levels repository.StockLevelRepository
}

// NewReconciler construye el motor sobre el repositorio de proyección dado
// (normalmente el atado a la tx en curso).
func NewReconciler(levels repository.StockLevelRepository) *Reconciler {
	return &Reconciler{levels: levels}
}

// ApplyEffect aplica el efecto de un movimiento: +quantity para INGRESS,
// -quantity para EGRESS. quantity debe ser > 0; el signo lo pone el tipo.
// Si la clave no tiene fila, se crea partiendo de 0 (creación perezosa).
// El resultado puede ser negativo: no se valida contra stock disponible.
func (r *Reconciler) ApplyEffect(ctx context.Context, productID, warehouseID, kind string, quantity int64, at time.Time) (*entity.StockLevel, error) {
	if quantity <= 0 || !entity.ValidKind(kind) {
		return nil, domain.ErrInvalidInput
	}
	delta := quantity
	if kind == entity.MovementKindEgress {
		delta = -quantity
	}
	return r.levels.ApplyDelta(ctx, productID, warehouseID, delta, at)
}
