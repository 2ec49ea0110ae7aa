package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apporder "github.com/tu-usuario/tienda-api/internal/application/order"
	"github.com/tu-usuario/tienda-api/internal/application/dto"
	"github.com/tu-usuario/tienda-api/internal/domain"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// En el fake no hay filas que bloquear; el comportamiento es el mismo que GetByID.
func (r *fakeProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) GetByTitle(title string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Title == title {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int) error {
	p, ok := r.products[productID]
	if !ok {
		return errors.New("producto no existe")
	}
	p.Stock = stock
	return nil
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) CountByCategory(categoryID string) (int, error) { return 0, nil }

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, ok := r.products[id]
	require.True(t, ok, "el producto %s debe existir en el fake", id)
	return p.Stock
}

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *fakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(orderID string, isDelivered bool, deliveredAt *time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return errors.New("pedido no existe")
	}
	o.IsDelivered = isDelivered
	o.DeliveredAt = deliveredAt
	return nil
}

func (r *fakeOrderRepo) Delete(id string) error {
	delete(r.orders, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) { return nil, nil }

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

// fakeTxRunner emula la semántica transaccional: toma un snapshot del estado
// antes de ejecutar fn y lo restaura completo si fn devuelve error, de modo que
// los decrementos parciales de stock nunca quedan visibles.
type fakeTxRunner struct {
	productRepo *fakeProductRepo
	orderRepo   *fakeOrderRepo
}

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	productSnap := make(map[string]entity.Product, len(tx.productRepo.products))
	for id, p := range tx.productRepo.products {
		productSnap[id] = *p
	}
	orderSnap := make(map[string]entity.Order, len(tx.orderRepo.orders))
	for id, o := range tx.orderRepo.orders {
		orderSnap[id] = *o
	}

	if err := fn(tx.productRepo, tx.orderRepo); err != nil {
		tx.productRepo.products = make(map[string]*entity.Product, len(productSnap))
		for id, p := range productSnap {
			cp := p
			tx.productRepo.products[id] = &cp
		}
		tx.orderRepo.orders = make(map[string]*entity.Order, len(orderSnap))
		for id, o := range orderSnap {
			cp := o
			tx.orderRepo.orders[id] = &cp
		}
		return err
	}
	return nil
}

type fakeReceiptGenerator struct{}

func (g *fakeReceiptGenerator) GenerateReceipt(ctx context.Context, o *entity.Order, u *entity.User) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	buyerID  = "00000000-0000-0000-0000-0000000000aa"
	sellerID = "00000000-0000-0000-0000-0000000000bb"
)

func buildUseCase(products ...*entity.Product) (*apporder.OrderUseCase, *fakeProductRepo, *fakeOrderRepo) {
	productRepo := newFakeProductRepo(products...)
	orderRepo := newFakeOrderRepo()
	userRepo := newFakeUserRepo(&entity.User{ID: buyerID, Fullname: "Ana Comprador", Email: "ana@example.com", Roles: []string{entity.RoleUser}})
	tx := &fakeTxRunner{productRepo: productRepo, orderRepo: orderRepo}
	uc := apporder.NewOrderUseCase(tx, orderRepo, userRepo, &fakeReceiptGenerator{})
	return uc, productRepo, orderRepo
}

func product(id, title string, price int64, stock int) *entity.Product {
	return &entity.Product{
		ID:         id,
		Title:      title,
		Price:      price,
		Stock:      stock,
		CategoryID: "cat-1",
		SellerID:   sellerID,
	}
}

func shipping() dto.ShippingAddressRequest {
	return dto.ShippingAddressRequest{
		Fullname: "Ana Comprador",
		City:     "Bogotá",
		Address:  "Calle 1 # 2-3",
		State:    "Cundinamarca",
		Country:  "CO",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Place — camino feliz
// ──────────────────────────────────────────────────────────────────────────────

func TestPlace_CalculaTotalConPrecioVigenteYDecrementaStock(t *testing.T) {
	uc, productRepo, orderRepo := buildUseCase(
		product("p1", "Teclado", 1000, 5),
		product("p2", "Mouse", 500, 10),
	)

	resp, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems: []dto.OrderItemRequest{
			// PurchaseAt reporta precios viejos a propósito: el total debe salir
			// del precio vigente del producto, no del que manda el cliente.
			{ProductID: "p1", ProductName: "Teclado", Quantity: 2, PurchaseAt: 1},
			{ProductID: "p2", ProductName: "Mouse", Quantity: 3, PurchaseAt: 1},
		},
		ShippingAddress: shipping(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int64(2*1000+3*500), resp.TotalPrice,
		"el total debe calcularse con el precio actual de cada producto")
	assert.Equal(t, 3, productRepo.stockOf(t, "p1"))
	assert.Equal(t, 7, productRepo.stockOf(t, "p2"))

	stored, err := orderRepo.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "el pedido debe quedar persistido")
	assert.Equal(t, buyerID, stored.UserID)
	assert.False(t, stored.IsDelivered, "el pedido nace pendiente")

	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(1), resp.Items[0].PurchaseAt,
		"PurchaseAt se guarda tal cual como snapshot del cliente")
	assert.Equal(t, "Bogotá", resp.ShippingAddress.City)
}

// ──────────────────────────────────────────────────────────────────────────────
// Place — verificación de stock (estricta: pedir todo el stock se rechaza)
// ──────────────────────────────────────────────────────────────────────────────

func TestPlace_CantidadIgualAlStock_Rechazada(t *testing.T) {
	uc, productRepo, _ := buildUseCase(product("p1", "Teclado", 1000, 3))

	_, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 3}},
		ShippingAddress: shipping(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 3, productRepo.stockOf(t, "p1"), "el stock no debe tocarse si el pedido se rechaza")
}

func TestPlace_UnaUnidadMenosQueElStock_Aceptada(t *testing.T) {
	uc, productRepo, _ := buildUseCase(product("p1", "Teclado", 1000, 3))

	_, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 2}},
		ShippingAddress: shipping(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, productRepo.stockOf(t, "p1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Place — atomicidad: un fallo a mitad del pedido revierte todo
// ──────────────────────────────────────────────────────────────────────────────

func TestPlace_FalloEnSegundoItem_RevierteDecrementos(t *testing.T) {
	uc, productRepo, orderRepo := buildUseCase(product("p1", "Teclado", 1000, 5))

	_, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems: []dto.OrderItemRequest{
			{ProductID: "p1", ProductName: "Teclado", Quantity: 2},
			{ProductID: "no-existe", ProductName: "Fantasma", Quantity: 1},
		},
		ShippingAddress: shipping(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 5, productRepo.stockOf(t, "p1"),
		"el decremento del primer item debe revertirse junto con todo el pedido")
	assert.Empty(t, orderRepo.orders, "no debe persistirse ningún pedido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Place — validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestPlace_SinItems_Rechazado(t *testing.T) {
	uc, _, _ := buildUseCase()

	_, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		ShippingAddress: shipping(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlace_CantidadCero_Rechazada(t *testing.T) {
	uc, productRepo, _ := buildUseCase(product("p1", "Teclado", 1000, 5))

	_, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 0}},
		ShippingAddress: shipping(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, productRepo.stockOf(t, "p1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — Delivered es terminal
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_MarcaEntregado(t *testing.T) {
	uc, _, orderRepo := buildUseCase(product("p1", "Teclado", 1000, 5))
	resp, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 1}},
		ShippingAddress: shipping(),
	})
	require.NoError(t, err)

	deliveredAt := time.Now()
	err = uc.UpdateStatus(context.Background(), resp.ID, dto.UpdateOrderStatusRequest{
		IsDelivered: true,
		DeliveredAt: &deliveredAt,
	})
	require.NoError(t, err)

	stored, err := orderRepo.GetByID(resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDelivered)
	require.NotNil(t, stored.DeliveredAt)
}

func TestUpdateStatus_PedidoYaEntregado_Rechazado(t *testing.T) {
	uc, _, orderRepo := buildUseCase(product("p1", "Teclado", 1000, 5))
	resp, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 1}},
		ShippingAddress: shipping(),
	})
	require.NoError(t, err)

	deliveredAt := time.Now()
	require.NoError(t, uc.UpdateStatus(context.Background(), resp.ID, dto.UpdateOrderStatusRequest{
		IsDelivered: true,
		DeliveredAt: &deliveredAt,
	}))

	// Segundo intento: el estado entregado es terminal, ni re-entrega ni reversa.
	err = uc.UpdateStatus(context.Background(), resp.ID, dto.UpdateOrderStatusRequest{IsDelivered: false})
	assert.ErrorIs(t, err, domain.ErrAlreadyDelivered)

	stored, err := orderRepo.GetByID(resp.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDelivered, "el pedido debe seguir entregado")
}

func TestUpdateStatus_PedidoInexistente_NotFound(t *testing.T) {
	uc, _, _ := buildUseCase()
	err := uc.UpdateStatus(context.Background(), "no-existe", dto.UpdateOrderStatusRequest{IsDelivered: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receipt — solo dueño o admin
// ──────────────────────────────────────────────────────────────────────────────

func TestReceipt_SoloDuenoOAdmin(t *testing.T) {
	uc, _, _ := buildUseCase(product("p1", "Teclado", 1000, 5))
	resp, err := uc.Place(context.Background(), buyerID, dto.CreateOrderRequest{
		OrderItems:      []dto.OrderItemRequest{{ProductID: "p1", ProductName: "Teclado", Quantity: 1}},
		ShippingAddress: shipping(),
	})
	require.NoError(t, err)

	pdf, err := uc.Receipt(context.Background(), buyerID, []string{entity.RoleUser}, resp.ID)
	require.NoError(t, err, "el dueño del pedido debe poder pedir su comprobante")
	assert.NotEmpty(t, pdf)

	_, err = uc.Receipt(context.Background(), "otro-usuario", []string{entity.RoleUser}, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Receipt(context.Background(), "otro-usuario", []string{entity.RoleAdmin}, resp.ID)
	assert.NoError(t, err, "un admin puede pedir el comprobante de cualquier pedido")
}
