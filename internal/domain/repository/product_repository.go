package repository

import "github.com/tu-usuario/tienda-api/internal/domain/entity"

// ProductFilter filtros de búsqueda para listados de productos.
type ProductFilter struct {
	Search      string   // busca en title y description
	CategoryIDs []string
	MinPrice    int64
	MaxPrice    int64
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByIDForUpdate solo tiene sentido dentro de una transacción (bloqueo de fila).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByIDForUpdate(id string) (*entity.Product, error)
	GetByTitle(title string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock int) error
	List(filter ProductFilter) ([]*entity.Product, int, error)
	CountByCategory(categoryID string) (int, error)
	Delete(id string) error
}
