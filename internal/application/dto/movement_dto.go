package dto

import (
	"time"

	"golang.org/x/text/language"

	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

// CreateMovementRequest body para POST /api/movements.
type CreateMovementRequest struct {
	Kind        string `json:"kind"` // INGRESS | EGRESS
	Quantity    int64  `json:"quantity"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Description string `json:"description,omitempty"`
}

// UpdateMovementRequest body para PUT /api/movements/:id.
// Los campos no enviados conservan el valor original del movimiento.
type UpdateMovementRequest struct {
	Kind        *string `json:"kind,omitempty"`
	Quantity    *int64  `json:"quantity,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MovementResponse movimiento unido con los nombres descriptivos del catálogo.
// OccurredAtLabel es el timestamp renderizado en el locale del cliente.
type MovementResponse struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Quantity        int64     `json:"quantity"`
	ProductID       string    `json:"product_id"`
	ProductSKU      string    `json:"product_sku,omitempty"`
	ProductName     string    `json:"product_name,omitempty"`
	WarehouseID     string    `json:"warehouse_id"`
	WarehouseName   string    `json:"warehouse_name,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
	OccurredAtLabel string    `json:"occurred_at_label"`
	Description     string    `json:"description,omitempty"`
}

// MovementListResponse respuesta de GET /api/movements.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewMovementResponse construye la respuesta a partir de la fila unida.
func NewMovementResponse(row *repository.MovementWithRefs, tag language.Tag) MovementResponse {
	return MovementResponse{
		ID:              row.ID,
		Kind:            row.Kind,
		Quantity:        row.Quantity,
		ProductID:       row.ProductID,
		ProductSKU:      row.ProductSKU,
		ProductName:     row.ProductName,
		WarehouseID:     row.WarehouseID,
		WarehouseName:   row.WarehouseName,
		OccurredAt:      row.OccurredAt,
		OccurredAtLabel: FormatTimestamp(row.OccurredAt, tag),
		Description:     row.Description,
	}
}

// StockLevelResponse fila de la proyección para GET /api/stock-levels.
type StockLevelResponse struct {
	ProductID     string    `json:"product_id"`
	WarehouseID   string    `json:"warehouse_id"`
	Quantity      int64     `json:"quantity"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}
