package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter mounts the public catalog, the authenticated storefront surface,
// and the admin console under /admin. The whole tree is wrapped in otelhttp
// so every request carries a server span.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(Authenticate(handler.auth.VerifyToken))

	r.Post("/auth/signup", handler.SignUp)
	r.Post("/auth/login", handler.Login)

	r.Get("/products", handler.ListProducts)
	r.Get("/products/{id}", handler.GetProduct)
	r.Get("/categories", handler.ListCategories)
	r.Get("/categories/{id}/products", handler.ListCategoryProducts)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)

		r.Get("/cart", handler.GetCart)
		r.Post("/cart/items", handler.AddToCart)
		r.Put("/cart/items/{id}", handler.SetCartQuantity)
		r.Delete("/cart/items/{id}", handler.RemoveFromCart)

		r.Post("/checkout", handler.PlaceOrder)

		r.Get("/orders", handler.ListMyOrders)
		r.Get("/orders/{id}", handler.GetOrder)

		r.Get("/addresses", handler.ListAddresses)
		r.Post("/addresses", handler.AddAddress)

		r.Get("/notifications", handler.ListNotifications)
		r.Put("/notifications/{id}/read", handler.MarkNotificationRead)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin)

		r.Post("/products", handler.CreateProduct)
		r.Put("/products/{id}", handler.UpdateProduct)
		r.Delete("/products/{id}", handler.DeleteProduct)

		r.Post("/categories", handler.CreateCategory)
		r.Delete("/categories/{id}", handler.DeleteCategory)

		r.Get("/orders", handler.ListAllOrders)
		r.Put("/orders/{id}/status", handler.UpdateOrderStatus)
		r.Get("/orders/{id}/history", handler.OrderHistory)

		r.Get("/users", handler.ListUsers)
		r.Put("/users/{id}/role", handler.UpdateUserRole)
		r.Delete("/users/{id}", handler.DeleteUser)
	})

	return otelhttp.NewHandler(r, "storefront")
}
