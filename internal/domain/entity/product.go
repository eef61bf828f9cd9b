package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. Este subsistema solo
// necesita su identidad (validación de referencias) y su nombre/categoría
// (joins de presentación); el resto es catálogo plano.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Category    string          // tipo de producto; filtro opcional en listados de movimientos
	Price       decimal.Decimal // precio de venta
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
