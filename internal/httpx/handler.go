package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/auth"
	"github.com/jcmexdev/storefront/internal/cart"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/checkout"
	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
	"github.com/jcmexdev/storefront/internal/notification"
	"github.com/jcmexdev/storefront/internal/order"
)

// Handler exposes the storefront over HTTP: public catalog reads, the
// authenticated cart/checkout/order surface, and the admin console routes.
type Handler struct {
	auth          *auth.Service
	catalog       *catalog.Service
	cart          *cart.Service
	checkout      *checkout.Service
	orders        *order.Service
	notifications *notification.Service
	addresses     ports.AddressRepository
	users         ports.UserRepository
}

func NewHandler(
	as *auth.Service,
	cs *catalog.Service,
	crt *cart.Service,
	co *checkout.Service,
	os *order.Service,
	ns *notification.Service,
	addresses ports.AddressRepository,
	users ports.UserRepository,
) *Handler {
	return &Handler{
		auth:          as,
		catalog:       cs,
		cart:          crt,
		checkout:      co,
		orders:        os,
		notifications: ns,
		addresses:     addresses,
		users:         users,
	}
}

// --- auth ---

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	u, err := h.auth.SignUp(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapUser(u))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: mapUser(u)})
}

// --- catalog (public) ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		ps, err := h.catalog.SearchProducts(r.Context(), q)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mapProducts(ps))
		return
	}

	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProducts(ps))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *Handler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.ListByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProducts(ps))
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.cart.Items(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	quote, err := h.cart.Quote(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(lines, quote))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "product_id is required")
		return
	}

	if err := h.cart.Add(r.Context(), userID(r.Context()), req.ProductID); err != nil {
		respondError(w, r, err)
		return
	}
	h.GetCart(w, r)
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if err := h.cart.SetQuantity(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	h.GetCart(w, r)
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Remove(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- checkout ---

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	orderID, err := h.checkout.PlaceOrder(r.Context(), userID(r.Context()), req.AddressID, req.PaymentMethod)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CheckoutResponse{OrderID: orderID})
}

// --- orders ---

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.orders.ListMine(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(os))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), userID(r.Context()), isAdmin(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

// --- addresses ---

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	as, err := h.addresses.ListByUser(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]AddressResponse, len(as))
	for i, a := range as {
		out[i] = mapAddress(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.FullName == "" || req.AddressLine == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "full_name and address_line are required")
		return
	}

	a := &domain.Address{
		ID:          uuid.NewString(),
		FullName:    req.FullName,
		AddressLine: req.AddressLine,
		PhoneNumber: req.PhoneNumber,
		Default:     req.Default,
	}
	if err := h.addresses.Add(r.Context(), userID(r.Context()), a); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapAddress(*a))
}

// --- notifications ---

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.notifications.List(r.Context(), userID(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID: n.ID, Title: n.Title, Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkRead(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- admin ---

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == "" || req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and a positive price are required")
		return
	}

	p := productFromRequest("", req)
	if err := h.catalog.CreateProduct(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	p := productFromRequest(chi.URLParam(r, "id"), req)
	if err := h.catalog.UpdateProduct(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	c := &domain.Category{Name: req.Name, ImageURL: req.ImageURL}
	if err := h.catalog.CreateCategory(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(os))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.orders.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{Status: e.Status, Actor: e.Actor, TraceID: e.TraceID, CreatedAt: e.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]UserResponse, len(us))
	for i := range us {
		out[i] = mapUser(&us[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Role != domain.RoleUser && req.Role != domain.RoleAdmin {
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be USER or ADMIN")
		return
	}

	if err := h.users.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productFromRequest(id string, req ProductRequest) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Colors:      req.Colors,
		Sizes:       req.Sizes,
		Amount:      req.Amount,
		Active:      req.Active,
	}
}

// respondError maps the domain error taxonomy onto the uniform JSON error
// envelope. Anything unrecognized is a backend failure: surfaced with its
// message, retried manually by the user, never automatically.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "backend_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
