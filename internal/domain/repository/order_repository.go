package repository

import (
	"time"

	"github.com/tu-usuario/tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order (DIP).
// Create escribe el pedido completo (order + items + shipping address) en
// filas explícitas; el caller lo invoca dentro de la transacción de colocación.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Order, error)
	UpdateStatus(orderID string, isDelivered bool, deliveredAt *time.Time) error
	Delete(id string) error
}
