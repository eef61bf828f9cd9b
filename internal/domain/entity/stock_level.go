package entity

import "time"

// StockLevel es la proyección derivada del libro: una fila por clave
// (producto, bodega) con la cantidad acumulada de todos los efectos aplicados.
//
// Invariante: Quantity == suma con signo de los movimientos aplicados para la
// clave. Se crea de forma perezosa en 0 la primera vez que un movimiento toca
// la clave; solo el motor de conciliación la muta; nunca se elimina.
// La cantidad puede ser negativa: no se valida contra stock disponible.
type StockLevel struct {
	ProductID     string
	WarehouseID   string
	Quantity      int64
	LastUpdatedAt time.Time
}
