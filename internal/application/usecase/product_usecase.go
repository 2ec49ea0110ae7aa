package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/tienda-api/internal/application/dto"
	"github.com/tu-usuario/tienda-api/internal/domain"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos, incluida la subida de
// imágenes al Media Host con limpieza compensatoria si la persistencia falla.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       ImageStore
	imageFolder  string
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, images ImageStore, imageFolder string, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, images: images, imageFolder: imageFolder, log: log}
}

// Create crea un producto del vendedor autenticado. Las imágenes se suben al
// Media Host antes del insert; si el insert falla, las ya subidas se borran
// (los errores de ese borrado se registran y se tragan).
func (uc *ProductUseCase) Create(ctx context.Context, sellerID string, in dto.CreateProductRequest, images []ImageFile) (*dto.ProductResponse, error) {
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el producto %s ya existe", domain.ErrDuplicate, existing.Title)
	}
	category, err := uc.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría no encontrada", domain.ErrNotFound)
	}

	var uploaded []string
	if len(images) > 0 {
		uploaded, err = uc.images.UploadMany(ctx, images, uc.imageFolder)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Images:      uploaded,
		CategoryID:  category.ID,
		SellerID:    sellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		uc.cleanupImages(ctx, uploaded)
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros (search, categorías, rango de precio) y
// paginación page/limit, más recientes primero.
func (uc *ProductUseCase) List(q dto.ProductQuery) (*dto.ProductListResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	filter := repository.ProductFilter{
		Search:   q.Search,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Limit:    q.Limit,
		Offset:   (q.Page - 1) * q.Limit,
	}
	if q.Categories != "" {
		for _, id := range strings.Split(q.Categories, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.CategoryIDs = append(filter.CategoryIDs, id)
			}
		}
	}
	list, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	totalPages := (total + q.Limit - 1) / q.Limit
	return &dto.ProductListResponse{
		CurrentPage:   q.Page,
		TotalPages:    totalPages,
		TotalProducts: total,
		Products:      items,
	}, nil
}

// Update actualización parcial. Si llegan imágenes nuevas reemplazan a las
// anteriores: primero se suben, después del update exitoso se borran las
// viejas; si el update falla se borran las recién subidas.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, newImages []ImageFile) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}

	oldImages := product.Images

	var uploaded []string
	if len(newImages) > 0 {
		uploaded, err = uc.images.UploadMany(ctx, newImages, uc.imageFolder)
		if err != nil {
			return nil, err
		}
		product.Images = uploaded
	}

	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			uc.cleanupImages(ctx, uploaded)
			return nil, fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			uc.cleanupImages(ctx, uploaded)
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(*in.CategoryID)
		if err != nil {
			uc.cleanupImages(ctx, uploaded)
			return nil, err
		}
		if category == nil {
			uc.cleanupImages(ctx, uploaded)
			return nil, fmt.Errorf("%w: categoría inválida", domain.ErrInvalidInput)
		}
		product.CategoryID = category.ID
	}
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(product); err != nil {
		uc.cleanupImages(ctx, uploaded)
		return nil, err
	}
	if len(uploaded) > 0 {
		uc.cleanupImages(ctx, oldImages)
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}
	return uc.repo.Delete(id)
}

// cleanupImages borra imágenes del Media Host en el camino de compensación.
// Fallos aquí se registran y se tragan: el estado persistido ya es correcto.
func (uc *ProductUseCase) cleanupImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := uc.images.DeleteMany(ctx, urls); err != nil {
		uc.log.Warn().Err(err).Int("images", len(urls)).Msg("limpieza de imágenes en el Media Host falló")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      p.Images,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
