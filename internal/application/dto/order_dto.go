package dto

import "time"

// OrderItemRequest una línea del pedido. PurchaseAt es el precio unitario que
// reporta el cliente; se guarda como snapshot pero el total se calcula con el
// precio vigente del producto.
type OrderItemRequest struct {
	ProductID   string `json:"productId" validate:"required,uuid"`
	ProductName string `json:"productName" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	PurchaseAt  int64  `json:"purchaseAt" validate:"gte=0"`
}

// ShippingAddressRequest dirección de envío, creada nueva por pedido.
type ShippingAddressRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	City     string `json:"city" validate:"required"`
	Address  string `json:"address" validate:"required"`
	State    string `json:"state" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

// CreateOrderRequest entrada para colocar un pedido.
type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
}

// UpdateOrderStatusRequest transición de estado del pedido (Pending -> Delivered).
type UpdateOrderStatusRequest struct {
	IsDelivered bool       `json:"isDelivered"`
	DeliveredAt *time.Time `json:"deliveredAt"`
}

// OrderItemResponse salida de una línea del pedido.
type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	PurchaseAt  int64  `json:"purchaseAt"`
}

// ShippingAddressResponse salida de la dirección de envío.
type ShippingAddressResponse struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	City     string `json:"city"`
	Address  string `json:"address"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

// OrderResponse salida de un pedido con sus relaciones.
type OrderResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"userId"`
	Items           []OrderItemResponse     `json:"orderItems"`
	ShippingAddress ShippingAddressResponse `json:"shippingAddress"`
	IsDelivered     bool                    `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt,omitempty"`
	TotalPrice      int64                   `json:"totalPrice"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
