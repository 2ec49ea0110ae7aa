package entity

import "time"

// Order representa un pedido de un usuario. TotalPrice se calcula al crear
// y es inmutable después. Items y ShippingAddress viven y mueren con el
// pedido (el repositorio los escribe y borra explícitamente, sin cascadas ORM).
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	IsDelivered     bool
	DeliveredAt     *time.Time // nil mientras no se entregue; terminal una vez fijado
	TotalPrice      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem es una línea del pedido. ProductName y PurchaseAt son snapshots
// del momento de compra: ediciones posteriores del producto no alteran el
// histórico.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	PurchaseAt  int64 // precio unitario reportado por el cliente (snapshot)
	Quantity    int   // >= 1
}

// ShippingAddress se crea nueva por pedido (uno a uno, sin reutilización).
type ShippingAddress struct {
	ID       string
	OrderID  string
	UserID   string
	Fullname string
	City     string
	Address  string
	State    string
	Country  string
}
