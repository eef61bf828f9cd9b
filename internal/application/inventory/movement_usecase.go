package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/tu-usuario/almacen-ledger/internal/application/dto"
	"github.com/tu-usuario/almacen-ledger/internal/domain"
	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
	"github.com/tu-usuario/almacen-ledger/pkg/logger"
)

// MovementUseCase es el servicio de movimientos: valida referencias contra el
// catálogo, orquesta la escritura en el libro junto con la conciliación de la
// proyección (misma transacción) y arma las respuestas con los nombres
// descriptivos (solo presentación).
type MovementUseCase struct {
	txRunner      TxRunner
	movRepo       repository.MovementRepository // lecturas fuera de tx (pool)
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
	now           func() time.Time
}

// NewMovementUseCase construye el servicio de movimientos.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		movRepo:       movRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
		now:           time.Now,
	}
}

// Create registra un movimiento: valida referencias (sin efectos si fallan),
// inserta la entrada del libro con occurred_at del servidor y aplica su efecto
// a la proyección dentro de la misma transacción.
func (uc *MovementUseCase) Create(ctx context.Context, userID string, in dto.CreateMovementRequest, tag language.Tag) (*dto.MovementResponse, error) {
	if !entity.ValidKind(in.Kind) || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Validación de referencias antes de cualquier mutación
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrReferenceNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrReferenceNotFound
	}

	now := uc.now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		OccurredAt:  now,
		Description: in.Description,
		CreatedBy:   userID,
	}

	// Libro + proyección comparten Commit o Rollback
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		_, err := NewReconciler(levelRepo).ApplyEffect(ctx, mov.ProductID, mov.WarehouseID, mov.Kind, mov.Quantity, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("kind", mov.Kind).
		Int64("quantity", mov.Quantity).
		Str("product_id", mov.ProductID).
		Str("warehouse_id", mov.WarehouseID).
		Msg("movimiento registrado")

	resp := dto.NewMovementResponse(&repository.MovementWithRefs{
		Movement:      *mov,
		ProductSKU:    product.SKU,
		ProductName:   product.Name,
		WarehouseName: warehouse.Name,
	}, tag)
	return &resp, nil
}

// Update edita un movimiento existente. La secuencia crítica del subsistema:
// dentro de UNA transacción se bloquea la fila del movimiento, se revierte el
// efecto original (tipo invertido, misma cantidad), se aplica el efecto
// resultante y se persiste la fila editada. Un fallo en cualquier paso
// revierte todo; un commit parcial dejaría la proyección desviada en el
// efecto viejo de forma permanente.
func (uc *MovementUseCase) Update(ctx context.Context, id string, in dto.UpdateMovementRequest, tag language.Tag) (*dto.MovementResponse, error) {
	// Validación antes de cualquier mutación
	if in.Kind != nil && !entity.ValidKind(*in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Una cancelación del cliente no debe partir la pareja
	// reversión+reaplicación: la transacción corre sobre un contexto
	// desacoplado y termina en Commit o Rollback completos.
	txCtx := context.WithoutCancel(ctx)

	now := uc.now()
	var updated *entity.Movement
	err := uc.txRunner.Run(txCtx, func(
		movRepo repository.MovementRepository,
		levelRepo repository.StockLevelRepository,
	) error {
		mov, err := movRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}

		rec := NewReconciler(levelRepo)

		// Paso 1: revertir el efecto original
		if _, err := rec.ApplyEffect(txCtx, mov.ProductID, mov.WarehouseID, entity.InvertKind(mov.Kind), mov.Quantity, now); err != nil {
			return err
		}

		// Campos no enviados conservan el valor original
		if in.Kind != nil {
			mov.Kind = *in.Kind
		}
		if in.Quantity != nil {
			mov.Quantity = *in.Quantity
		}
		if in.Description != nil {
			mov.Description = *in.Description
		}

		// Paso 2: aplicar el efecto resultante
		if _, err := rec.ApplyEffect(txCtx, mov.ProductID, mov.WarehouseID, mov.Kind, mov.Quantity, now); err != nil {
			return err
		}

		if err := movRepo.Update(txCtx, mov); err != nil {
			return err
		}
		updated = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", updated.ID).
		Str("kind", updated.Kind).
		Int64("quantity", updated.Quantity).
		Msg("movimiento editado: efecto revertido y reaplicado")

	return uc.respond(ctx, updated, tag)
}

// Delete elimina solo la fila del libro. Por diseño vigente NO revierte el
// efecto sobre la proyección: el stock queda con el efecto del movimiento
// borrado. Comportamiento heredado pendiente de decisión de producto; se deja
// rastro en el log para que operaciones pueda explicar la deriva.
func (uc *MovementUseCase) Delete(ctx context.Context, id string) error {
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mov == nil {
		return domain.ErrNotFound
	}
	deleted, err := uc.movRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	uc.log.Warn().
		Str("movement_id", id).
		Str("product_id", mov.ProductID).
		Str("warehouse_id", mov.WarehouseID).
		Int64("stranded_effect", mov.SignedEffect()).
		Msg("movimiento eliminado sin revertir su efecto en la proyección")
	return nil
}

// GetByID obtiene un movimiento con nombres de catálogo.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string, tag language.Tag) (*dto.MovementResponse, error) {
	row, err := uc.movRepo.GetWithRefs(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewMovementResponse(row, tag)
	return &resp, nil
}

// List lista movimientos, más recientes primero, con filtro opcional por
// categoría de producto.
func (uc *MovementUseCase) List(ctx context.Context, category string, page dto.PageRequest, tag language.Tag) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	rows, err := uc.movRepo.List(ctx, category, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Movements: make([]dto.MovementResponse, 0, len(rows)),
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for i := range rows {
		out.Movements = append(out.Movements, dto.NewMovementResponse(&rows[i], tag))
	}
	return out, nil
}

// respond arma la respuesta de un movimiento recién editado. Si alguna
// referencia quedó huérfana se responde con los IDs crudos y nombres vacíos.
func (uc *MovementUseCase) respond(ctx context.Context, mov *entity.Movement, tag language.Tag) (*dto.MovementResponse, error) {
	row := &repository.MovementWithRefs{Movement: *mov}
	if p, err := uc.productRepo.GetByID(mov.ProductID); err == nil && p != nil {
		row.ProductSKU = p.SKU
		row.ProductName = p.Name
	}
	if w, err := uc.warehouseRepo.GetByID(mov.WarehouseID); err == nil && w != nil {
		row.WarehouseName = w.Name
	}
	resp := dto.NewMovementResponse(row, tag)
	return &resp, nil
}
