package entity

import "time"

// Product representa un producto publicado por un vendedor dentro de una
// categoría. Price es entero positivo (centavos); Stock nunca baja de cero:
// solo lo mutan la colocación de pedidos (transaccional) y la edición directa.
type Product struct {
	ID          string
	Title       string // único
	Description string
	Price       int64
	Stock       int
	Images      []string // URLs en el Media Host, en orden
	CategoryID  string
	SellerID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
