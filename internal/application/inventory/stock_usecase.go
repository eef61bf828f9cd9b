package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-ledger/internal/application/dto"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

// StockQueryUseCase lecturas de la proyección de stock. Solo consulta: la
// única vía de escritura sigue siendo el motor de conciliación.
type StockQueryUseCase struct {
	levels repository.StockLevelRepository
}

// NewStockQueryUseCase construye el caso de uso de consulta.
func NewStockQueryUseCase(levels repository.StockLevelRepository) *StockQueryUseCase {
	return &StockQueryUseCase{levels: levels}
}

// List lista la proyección con paginación.
func (uc *StockQueryUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.StockLevelResponse, error) {
	page.DefaultPage()
	rows, err := uc.levels.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, dto.StockLevelResponse{
			ProductID:     s.ProductID,
			WarehouseID:   s.WarehouseID,
			Quantity:      s.Quantity,
			LastUpdatedAt: s.LastUpdatedAt,
		})
	}
	return out, nil
}

// Get devuelve la fila de una clave concreta; nil si nunca fue tocada.
func (uc *StockQueryUseCase) Get(ctx context.Context, productID, warehouseID string) (*dto.StockLevelResponse, error) {
	s, err := uc.levels.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return &dto.StockLevelResponse{
		ProductID:     s.ProductID,
		WarehouseID:   s.WarehouseID,
		Quantity:      s.Quantity,
		LastUpdatedAt: s.LastUpdatedAt,
	}, nil
}
