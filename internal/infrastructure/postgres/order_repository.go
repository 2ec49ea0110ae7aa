package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
// Las relaciones (items, shipping address) se escriben y borran en filas
// explícitas, sin cascadas del lado del mapeo.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido completo: shipping address, order y order items.
// Invocar dentro de una transacción (TxRunner) para que sea una unidad.
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()

	addr := order.ShippingAddress
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipping_addresses (id, order_id, user_id, fullname, city, address, state, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		addr.ID, addr.OrderID, addr.UserID, addr.Fullname, addr.City, addr.Address, addr.State, addr.Country,
	)
	if err != nil {
		return fmt.Errorf("insert shipping address: %w", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO orders (id, user_id, shipping_address_id, is_delivered, delivered_at, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.UserID, addr.ID, order.IsDelivered, order.DeliveredAt,
		order.TotalPrice, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range order.Items {
		_, err = r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, purchase_at, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.OrderID, it.ProductID, it.ProductName, it.PurchaseAt, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus items y dirección de envío.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	ctx := context.Background()
	query := `
		SELECT o.id, o.user_id, o.is_delivered, o.delivered_at, o.total_price, o.created_at, o.updated_at,
		       a.id, a.order_id, a.user_id, a.fullname, a.city, a.address, a.state, a.country
		FROM orders o
		JOIN shipping_addresses a ON a.id = o.shipping_address_id
		WHERE o.id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.IsDelivered, &o.DeliveredAt, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt,
		&o.ShippingAddress.ID, &o.ShippingAddress.OrderID, &o.ShippingAddress.UserID,
		&o.ShippingAddress.Fullname, &o.ShippingAddress.City, &o.ShippingAddress.Address,
		&o.ShippingAddress.State, &o.ShippingAddress.Country,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.itemsByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListByUser lista los pedidos de un usuario, más recientes primero.
func (r *OrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	ctx := context.Background()
	query := `
		SELECT o.id, o.user_id, o.is_delivered, o.delivered_at, o.total_price, o.created_at, o.updated_at,
		       a.id, a.order_id, a.user_id, a.fullname, a.city, a.address, a.state, a.country
		FROM orders o
		JOIN shipping_addresses a ON a.id = o.shipping_address_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.IsDelivered, &o.DeliveredAt, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt,
			&o.ShippingAddress.ID, &o.ShippingAddress.OrderID, &o.ShippingAddress.UserID,
			&o.ShippingAddress.Fullname, &o.ShippingAddress.City, &o.ShippingAddress.Address,
			&o.ShippingAddress.State, &o.ShippingAddress.Country,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.itemsByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

func (r *OrderRepo) itemsByOrder(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, purchase_at, quantity
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.PurchaseAt, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus fija isDelivered/deliveredAt. El guard de estado terminal vive
// en el caso de uso.
func (r *OrderRepo) UpdateStatus(orderID string, isDelivered bool, deliveredAt *time.Time) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE orders SET is_delivered = $2, delivered_at = $3, updated_at = now()
		WHERE id = $1`,
		orderID, isDelivered, deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Delete borra el pedido y sus filas dependientes (items y dirección) de
// forma explícita.
func (r *OrderRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM shipping_addresses WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete shipping address: %w", err)
	}
	return nil
}
