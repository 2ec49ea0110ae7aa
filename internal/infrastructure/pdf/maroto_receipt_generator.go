// Package pdf genera el comprobante PDF de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda  │  N° Pedido + Fecha                        │
//	│  ──────────────────────────────────────────────────────────  │
//	│  CLIENTE: nombre + email                                     │
//	│  ENVÍO: dirección completa                                   │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TOTAL + estado de entrega                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apporder "github.com/tu-usuario/tienda-api/internal/application/order"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
)

var _ apporder.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptGenerator implementa order.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	storeName string
}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(storeName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{storeName: storeName}
}

// GenerateReceipt genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceipt(_ context.Context, order *entity.Order, user *entity.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pedido", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(user))
	m.AddRows(shippingRow(order.ShippingAddress))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, it := range order.Items {
		m.AddRows(itemRow(it))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la tienda (izq) y N° pedido + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(order *entity.Order) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")
	return row.New(14).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Pedido "+order.ID, props.Text{
				Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 6, Color: colorGray,
			}),
		),
	)
}

func customerRow(user *entity.User) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s (%s)", user.Fullname, user.Email), props.Text{Size: 9, Top: 1}),
		),
	)
}

func shippingRow(addr entity.ShippingAddress) core.Row {
	dir := fmt.Sprintf("Envío: %s — %s, %s, %s, %s", addr.Fullname, addr.Address, addr.City, addr.State, addr.Country)
	return row.New(8).Add(
		col.New(12).Add(
			text.New(dir, props.Text{Size: 9, Top: 1, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Color: colorPrimary}
	return row.New(7).Add(
		col.New(2).Add(text.New("Cant.", header)),
		col.New(6).Add(text.New("Producto", header)),
		col.New(2).Add(text.New("P. Unit", propsRight(header))),
		col.New(2).Add(text.New("Subtotal", propsRight(header))),
	)
}

func itemRow(it entity.OrderItem) core.Row {
	cell := props.Text{Size: 9, Top: 1}
	subtotal := int64(it.Quantity) * it.PurchaseAt
	return row.New(6).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", it.Quantity), cell)),
		col.New(6).Add(text.New(it.ProductName, cell)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", it.PurchaseAt), propsRight(cell))),
		col.New(2).Add(text.New(fmt.Sprintf("%d", subtotal), propsRight(cell))),
	)
}

func totalRow(order *entity.Order) core.Row {
	estado := "Pendiente"
	if order.DeliveredAt != nil {
		estado = "Entregado " + order.DeliveredAt.Format("02/01/2006")
	}
	return row.New(10).Add(
		col.New(7).Add(
			text.New("Estado: "+estado, props.Text{Size: 9, Top: 2, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("TOTAL: %d", order.TotalPrice), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1, Color: colorPrimary,
			}),
		),
	)
}

func propsRight(p props.Text) props.Text {
	p.Align = align.Right
	return p
}
