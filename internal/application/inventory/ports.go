package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la entrada del libro y la
// conciliación de la proyección comparten un solo Commit o Rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		levelRepo repository.StockLevelRepository,
	) error) error
}
