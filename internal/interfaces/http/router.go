package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/tienda-api/internal/application/auth"
	"github.com/tu-usuario/tienda-api/internal/application/order"
	"github.com/tu-usuario/tienda-api/internal/application/usecase"
	"github.com/tu-usuario/tienda-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *order.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Los roles requeridos se declaran por
// ruta y los resuelve el único gate RequireRole; rutas sin roles declarados
// quedan abiertas a cualquier petición (autenticada o no, según middleware).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authRequired := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Users y auth
	users := api.Group("/users")
	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", authHandler.Register)
	users.Post("/sign-in", authHandler.SignIn)
	users.Get("/", authRequired, adminOnly, userHandler.List)
	users.Put("/password", authRequired, userHandler.UpdatePassword)
	users.Get("/:id", userHandler.GetByID)

	// Categories (lectura pública, escritura admin)
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authRequired, adminOnly, categoryHandler.Create)
	categories.Put("/:id", authRequired, adminOnly, categoryHandler.Update)
	categories.Delete("/:id", authRequired, adminOnly, categoryHandler.Delete)

	// Products (lectura pública, escritura admin)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authRequired, adminOnly, productHandler.Create)
	products.Put("/:id", authRequired, adminOnly, productHandler.Update)
	products.Delete("/:id", authRequired, adminOnly, productHandler.Delete)

	// Orders (requieren usuario autenticado; estado solo admin)
	orders := api.Group("/orders", authRequired)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Put("/:id", adminOnly, orderHandler.UpdateStatus)
}
