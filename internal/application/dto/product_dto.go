package dto

import "time"

// CreateProductRequest entrada para crear un producto. Las imágenes llegan
// aparte como multipart y se suben al Media Host antes de persistir.
type CreateProductRequest struct {
	Title       string `json:"title" form:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
	Price       int64  `json:"price" form:"price" validate:"required,gt=0"`
	Stock       int    `json:"stock" form:"stock" validate:"required,gte=0"`
	CategoryID  string `json:"categoryId" form:"categoryId" validate:"required,uuid"`
}

// UpdateProductRequest actualización parcial de un producto.
type UpdateProductRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" form:"description"`
	Price       *int64  `json:"price" form:"price" validate:"omitempty,gt=0"`
	Stock       *int    `json:"stock" form:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string `json:"categoryId" form:"categoryId" validate:"omitempty,uuid"`
}

// ProductQuery filtros del listado público de productos.
type ProductQuery struct {
	Search     string `query:"search"`
	Categories string `query:"categories"` // ids separados por coma
	MinPrice   int64  `query:"min_price"`
	MaxPrice   int64  `query:"max_price"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	Images      []string  `json:"images"`
	CategoryID  string    `json:"categoryId"`
	SellerID    string    `json:"sellerId"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	CurrentPage   int               `json:"currentPage"`
	TotalPages    int               `json:"totalPages"`
	TotalProducts int               `json:"totalProducts"`
	Products      []ProductResponse `json:"products"`
}
