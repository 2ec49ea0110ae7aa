package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/tienda-api/internal/application/dto"
	"github.com/tu-usuario/tienda-api/internal/domain"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
)

// OrderUseCase coloca pedidos de forma transaccional y maneja la transición
// de estado Pending -> Delivered (terminal).
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	receipts  ReceiptGenerator
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, userRepo repository.UserRepository, receipts ReceiptGenerator) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orderRepo: orderRepo, userRepo: userRepo, receipts: receipts}
}

// Place coloca un pedido para el usuario autenticado. Toda la secuencia corre
// dentro de una transacción: por cada línea se bloquea la fila del producto
// (SELECT FOR UPDATE), se verifica stock, se acumula el total con el precio
// vigente y se decrementa stock; al final se inserta el pedido completo
// (order + items + shipping address). Cualquier fallo revierte los decrementos
// ya hechos: no hay commits parciales.
//
// La verificación es estricta: pedir exactamente el stock disponible se
// rechaza (stock <= cantidad).
func (uc *OrderUseCase) Place(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: el pedido debe tener al menos un item", domain.ErrInvalidInput)
	}
	for _, it := range in.OrderItems {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: la cantidad debe ser al menos 1", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	newOrder := &entity.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	newOrder.ShippingAddress = entity.ShippingAddress{
		ID:       uuid.New().String(),
		OrderID:  newOrder.ID,
		UserID:   userID,
		Fullname: in.ShippingAddress.Fullname,
		City:     in.ShippingAddress.City,
		Address:  in.ShippingAddress.Address,
		State:    in.ShippingAddress.State,
		Country:  in.ShippingAddress.Country,
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error {
		var totalPrice int64
		for _, it := range in.OrderItems {
			product, err := productRepo.GetByIDForUpdate(it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: %s no está disponible", domain.ErrNotFound, it.ProductName)
			}
			if product.Stock <= it.Quantity {
				return fmt.Errorf("%w: %s", domain.ErrOutOfStock, product.Title)
			}

			// El total usa el precio vigente del producto; PurchaseAt se guarda
			// tal cual como snapshot del cliente.
			totalPrice += int64(it.Quantity) * product.Price

			if err := productRepo.UpdateStock(product.ID, product.Stock-it.Quantity); err != nil {
				return err
			}

			newOrder.Items = append(newOrder.Items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     newOrder.ID,
				ProductID:   product.ID,
				ProductName: it.ProductName,
				PurchaseAt:  it.PurchaseAt,
				Quantity:    it.Quantity,
			})
		}
		newOrder.TotalPrice = totalPrice
		return orderRepo.Create(newOrder)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(newOrder), nil
}

// GetByID obtiene un pedido con items y dirección de envío.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
	}
	return toOrderResponse(order), nil
}

// ListByUser lista los pedidos del usuario con paginación.
func (uc *OrderUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UpdateStatus aplica la transición de estado del pedido. Una vez entregado
// (DeliveredAt no nulo) el estado es terminal: no hay reversa ni re-entrega.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) error {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
	}
	if order.DeliveredAt != nil {
		return domain.ErrAlreadyDelivered
	}
	return uc.orderRepo.UpdateStatus(id, in.IsDelivered, in.DeliveredAt)
}

// Receipt genera el comprobante PDF de un pedido. Solo el dueño del pedido o
// un admin pueden pedirlo.
func (uc *OrderUseCase) Receipt(ctx context.Context, principalID string, principalRoles []string, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
	}
	if order.UserID != principalID && !hasRole(principalRoles, entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario del pedido no encontrado", domain.ErrNotFound)
	}
	return uc.receipts.GenerateReceipt(ctx, order, user)
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			PurchaseAt:  it.PurchaseAt,
		})
	}
	return &dto.OrderResponse{
		ID:     o.ID,
		UserID: o.UserID,
		Items:  items,
		ShippingAddress: dto.ShippingAddressResponse{
			ID:       o.ShippingAddress.ID,
			Fullname: o.ShippingAddress.Fullname,
			City:     o.ShippingAddress.City,
			Address:  o.ShippingAddress.Address,
			State:    o.ShippingAddress.State,
			Country:  o.ShippingAddress.Country,
		},
		IsDelivered: o.IsDelivered,
		DeliveredAt: o.DeliveredAt,
		TotalPrice:  o.TotalPrice,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
