package order

import (
	"context"

	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la verificación de stock, los
// decrementos y la inserción del pedido completo commiteen o reviertan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// ReceiptGenerator genera la representación PDF del comprobante de un pedido.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.Order, user *entity.User) ([]byte, error)
}
