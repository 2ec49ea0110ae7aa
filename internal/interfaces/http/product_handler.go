package http

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/tienda-api/internal/application/dto"
	"github.com/tu-usuario/tienda-api/internal/application/usecase"
)

// Límites de subida de imágenes por producto.
const (
	maxImageFiles = 10
	maxImageSize  = 5 * 1024 * 1024 // 5MB por archivo
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto (solo admin)
// @Tags         products
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        title       formData  string  true   "Título (único)"
// @Param        description formData  string  true   "Descripción"
// @Param        price       formData  int     true   "Precio (positivo)"
// @Param        stock       formData  int     true   "Stock inicial"
// @Param        categoryId  formData  string  true   "ID de la categoría"
// @Param        images      formData  file    false  "Imágenes (hasta 10, 5MB c/u)"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Title == "" || in.Description == "" || in.CategoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "title, description y categoryId son requeridos"})
	}
	images, err := imagesFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IMAGES", Message: err.Error()})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in, images)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos con filtros
// @Tags         products
// @Produce      json
// @Param        search      query  string  false  "Busca en título y descripción"
// @Param        categories  query  string  false  "IDs de categoría separados por coma"
// @Param        min_price   query  int     false  "Precio mínimo"
// @Param        max_price   query  int     false  "Precio máximo"
// @Param        page        query  int     false  "Página"   default(1)
// @Param        limit       query  int     false  "Tamaño"   default(20)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	out, err := h.uc.List(q)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (solo admin)
// @Tags         products
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        id      path      string  true   "ID del producto"
// @Param        images  formData  file    false  "Imágenes nuevas (reemplazan las anteriores)"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	images, err := imagesFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_IMAGES", Message: err.Error()})
	}
	out, err := h.uc.Update(c.Context(), id, in, images)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto (solo admin)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// imagesFromForm extrae los archivos "images" del multipart (si lo hay),
// validando cantidad, tamaño y content type.
func imagesFromForm(c *fiber.Ctx) ([]usecase.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil // sin multipart: producto sin imágenes
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxImageFiles {
		return nil, fiber.NewError(fiber.StatusBadRequest, "máximo 10 imágenes por producto")
	}
	files := make([]usecase.ImageFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxImageSize {
			return nil, fiber.NewError(fiber.StatusBadRequest, "cada imagen debe pesar máximo 5MB")
		}
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return nil, fiber.NewError(fiber.StatusBadRequest, "solo se permiten archivos de imagen")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, usecase.ImageFile{
			Name:        fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}
