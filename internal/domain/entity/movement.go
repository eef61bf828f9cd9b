package entity

import "time"

// Tipos de movimiento del libro de inventario. El signo del efecto sobre el
// stock lo determina el tipo, nunca la cantidad (siempre positiva).
const (
	MovementKindIngress = "INGRESS" // entrada
	MovementKindEgress  = "EGRESS"  // salida
)

// ValidKind indica si el tipo de movimiento es uno de los soportados.
func ValidKind(kind string) bool {
	return kind == MovementKindIngress || kind == MovementKindEgress
}

// InvertKind devuelve el tipo opuesto. La reversión de un movimiento se
// expresa como aplicar el tipo invertido con la misma cantidad; no existe un
// primitivo de "undo" separado y el flujo de actualización depende de esa simetría.
func InvertKind(kind string) string {
	if kind == MovementKindIngress {
		return MovementKindEgress
	}
	return MovementKindIngress
}

// Movement es una entrada del libro de movimientos (una fila por evento de
// entrada o salida). El libro es append-only en intención: una edición se
// modela como reversión del efecto anterior + aplicación del nuevo, nunca
// como mutación silenciosa de la historia.
type Movement struct {
	ID          string
	Kind        string // INGRESS | EGRESS
	Quantity    int64  // magnitud, siempre > 0
	ProductID   string
	WarehouseID string
	OccurredAt  time.Time // asignado por el servidor al crear, no por el cliente
	Description string
	CreatedBy   string // UserID
}

// SignedEffect devuelve el efecto con signo del movimiento sobre la proyección:
// +Quantity para INGRESS, -Quantity para EGRESS.
func (m *Movement) SignedEffect() int64 {
	if m.Kind == MovementKindEgress {
		return -m.Quantity
	}
	return m.Quantity
}
