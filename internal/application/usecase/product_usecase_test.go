package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/tienda-api/internal/application/dto"
	"github.com/tu-usuario/tienda-api/internal/application/usecase"
	"github.com/tu-usuario/tienda-api/internal/domain"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
	"github.com/tu-usuario/tienda-api/internal/domain/repository"
	"github.com/tu-usuario/tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products   map[string]*entity.Product
	failCreate error // si no es nil, Create devuelve este error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	if r.failCreate != nil {
		return r.failCreate
	}
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
	var out []*entity.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) CountByCategory(categoryID string) (int, error) {
	n := 0
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func newFakeCategoryRepo(categories ...*entity.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[string]*entity.Category)}
	for _, c := range categories {
		cp := *c
		r.categories[c.ID] = &cp
	}
	return r
}

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) List() ([]*entity.Category, error) { return nil, nil }

func (r *fakeCategoryRepo) Delete(id string) error {
	delete(r.categories, id)
	return nil
}

// fakeImageStore registra subidas y borrados contra el Media Host.
type fakeImageStore struct {
	uploaded   []string // URLs devueltas por UploadMany, en orden
	deleted    []string // URLs pasadas a DeleteMany
	failUpload error
	failDelete error
	seq        int
}

func (s *fakeImageStore) UploadMany(ctx context.Context, files []usecase.ImageFile, folder string) ([]string, error) {
	if s.failUpload != nil {
		return nil, s.failUpload
	}
	urls := make([]string, 0, len(files))
	for range files {
		s.seq++
		urls = append(urls, fmt.Sprintf("https://media.example.com/%s/img-%d.jpg", folder, s.seq))
	}
	s.uploaded = append(s.uploaded, urls...)
	return urls, nil
}

func (s *fakeImageStore) DeleteMany(ctx context.Context, urls []string) error {
	s.deleted = append(s.deleted, urls...)
	return s.failDelete
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCategoryID = "00000000-0000-0000-0000-0000000000c1"
	testSellerID   = "00000000-0000-0000-0000-0000000000bb"
)

func buildProductUC() (*usecase.ProductUseCase, *fakeProductRepo, *fakeImageStore) {
	productRepo := newFakeProductRepo()
	categoryRepo := newFakeCategoryRepo(&entity.Category{ID: testCategoryID, Name: "Periféricos"})
	images := &fakeImageStore{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	uc := usecase.NewProductUseCase(productRepo, categoryRepo, images, "products", log)
	return uc, productRepo, images
}

func createRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Title:       "Teclado mecánico",
		Description: "Switches rojos",
		Price:       120000,
		Stock:       10,
		CategoryID:  testCategoryID,
	}
}

func testImages(n int) []usecase.ImageFile {
	files := make([]usecase.ImageFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, usecase.ImageFile{
			Name:        fmt.Sprintf("foto-%d.jpg", i+1),
			ContentType: "image/jpeg",
			Data:        []byte{0xFF, 0xD8, 0xFF},
		})
	}
	return files
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_SubeImagenesYPersiste(t *testing.T) {
	uc, repo, images := buildProductUC()

	resp, err := uc.Create(context.Background(), testSellerID, createRequest(), testImages(2))
	require.NoError(t, err)
	require.Len(t, resp.Images, 2, "las URLs del Media Host deben quedar en el producto")
	assert.Equal(t, testSellerID, resp.SellerID)

	stored, err := repo.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, resp.Images, stored.Images)
	assert.Empty(t, images.deleted, "en el camino feliz no se borra nada")
}

func TestCreateProduct_TituloDuplicado_NoSubeImagenes(t *testing.T) {
	uc, _, images := buildProductUC()

	_, err := uc.Create(context.Background(), testSellerID, createRequest(), nil)
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), testSellerID, createRequest(), testImages(1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, images.uploaded,
		"la validación de duplicado va antes de tocar el Media Host")
}

func TestCreateProduct_CategoriaInexistente_Rechazado(t *testing.T) {
	uc, _, _ := buildProductUC()

	in := createRequest()
	in.CategoryID = "00000000-0000-0000-0000-0000000000ff"
	_, err := uc.Create(context.Background(), testSellerID, in, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create — limpieza compensatoria de imágenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_InsertFalla_BorraImagenesSubidas(t *testing.T) {
	uc, repo, images := buildProductUC()
	repo.failCreate = errors.New("deadlock detected")

	_, err := uc.Create(context.Background(), testSellerID, createRequest(), testImages(3))
	require.Error(t, err)

	assert.Len(t, images.uploaded, 3)
	assert.ElementsMatch(t, images.uploaded, images.deleted,
		"todas las imágenes ya subidas deben borrarse si el insert falla")
}

// El fallo del borrado compensatorio se registra y se traga: el error que ve el
// caller sigue siendo el del insert.
func TestCreateProduct_FalloDelBorradoCompensatorio_SeTraga(t *testing.T) {
	uc, repo, images := buildProductUC()
	insertErr := errors.New("connection reset")
	repo.failCreate = insertErr
	images.failDelete = errors.New("media host caído")

	_, err := uc.Create(context.Background(), testSellerID, createRequest(), testImages(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, insertErr)
	assert.NotContains(t, err.Error(), "media host caído")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — reemplazo de imágenes
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProduct_ImagenesNuevasReemplazanYBorranLasViejas(t *testing.T) {
	uc, _, images := buildProductUC()

	created, err := uc.Create(context.Background(), testSellerID, createRequest(), testImages(2))
	require.NoError(t, err)
	oldImages := created.Images

	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{}, testImages(1))
	require.NoError(t, err)
	require.Len(t, resp.Images, 1)
	assert.NotEqual(t, oldImages, resp.Images)
	assert.ElementsMatch(t, oldImages, images.deleted,
		"las imágenes anteriores se borran después del update exitoso")
}

func TestUpdateProduct_PrecioInvalido_BorraImagenesNuevas(t *testing.T) {
	uc, repo, images := buildProductUC()

	created, err := uc.Create(context.Background(), testSellerID, createRequest(), nil)
	require.NoError(t, err)

	bad := int64(0)
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Price: &bad}, testImages(2))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, images.deleted, 2, "las imágenes recién subidas se limpian si el update falla")

	stored, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), stored.Price, "el precio no debe cambiar")
}

// ──────────────────────────────────────────────────────────────────────────────
// List — paginación page/limit
// ──────────────────────────────────────────────────────────────────────────────

func TestListProducts_DefaultsDePaginacion(t *testing.T) {
	uc, _, _ := buildProductUC()

	in := createRequest()
	_, err := uc.Create(context.Background(), testSellerID, in, nil)
	require.NoError(t, err)

	resp, err := uc.List(dto.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalProducts)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Products, 1)
}
