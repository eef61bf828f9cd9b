package dto

import "time"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Refleja el libro y la proyección al momento de la consulta; no hay escrituras.
type DashboardSummaryDTO struct {
	// Movimientos con occurred_at dentro del día local de reporte [00:00, 24:00)
	MovementsToday int `json:"movements_today"`

	// Filas de proyección con cantidad en [0, umbral], con nombre de producto
	LowStockItems []DashboardStockItemDTO `json:"low_stock_items"`

	// Las 5 filas de menor stock, ascendente (las negativas aparecen primero)
	Top5LowestStock []DashboardStockItemDTO `json:"top5_lowest_stock"`

	// Últimos movimientos, descendente por occurred_at
	RecentMovements []DashboardMovementDTO `json:"recent_movements"`

	// Etiqueta legible del período, ej: "agosto 2026"
	DateLabel string `json:"date_label"`
}

// DashboardStockItemDTO fila de stock para los widgets del dashboard.
type DashboardStockItemDTO struct {
	ProductID     string    `json:"product_id"`
	ProductSKU    string    `json:"product_sku"`
	ProductName   string    `json:"product_name"`
	WarehouseID   string    `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int64     `json:"quantity"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// DashboardMovementDTO movimiento reciente para el widget del dashboard.
type DashboardMovementDTO struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	ProductName   string    `json:"product_name"`
	WarehouseName string    `json:"warehouse_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}
