package entity

import "time"

// Warehouse representa un almacén físico. IsCedis distingue el centro de
// distribución (origen de los pedidos de reposición) de los almacenes de
// consumo. Inmutable una vez creado para efectos del núcleo de movimientos.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	IsCedis   bool
	CreatedAt time.Time
}
