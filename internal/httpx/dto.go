package httpx

import (
	"time"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/pricing"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"category_id"`
	Images      []string `json:"images"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Amount      int      `json:"amount"`
	Active      bool     `json:"active"`
}

type ProductResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"category_id,omitempty"`
	Images      []string `json:"images,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Amount      int      `json:"amount"`
	InStock     bool     `json:"in_stock"`
}

type CategoryRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
}

type CartResponse struct {
	Items          []CartLineResponse `json:"items"`
	Subtotal       float64            `json:"subtotal"`
	DiscountAmount float64            `json:"discount_amount"`
	DeliveryFee    float64            `json:"delivery_fee"`
	Total          float64            `json:"total"`
}

type CheckoutRequest struct {
	AddressID     string `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID string `json:"order_id"`
}

type AddressRequest struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	PhoneNumber string `json:"phone_number"`
	Default     bool   `json:"default"`
}

type AddressResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	PhoneNumber string `json:"phone_number"`
	Default     bool   `json:"default"`
}

type OrderResponse struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	Items          []CartLineResponse `json:"items"`
	Address        AddressResponse    `json:"address"`
	PaymentMethod  string             `json:"payment_method,omitempty"`
	Subtotal       float64            `json:"subtotal"`
	DiscountAmount float64            `json:"discount_amount"`
	DeliveryFee    float64            `json:"delivery_fee"`
	Total          float64            `json:"total"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditEntryResponse struct {
	Status    string    `json:"status"`
	Actor     string    `json:"actor,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Images:      p.Images,
		Colors:      p.Colors,
		Sizes:       p.Sizes,
		Amount:      p.Amount,
		InStock:     p.InStock,
	}
}

func mapProducts(ps []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(ps))
	for i := range ps {
		out[i] = mapProduct(&ps[i])
	}
	return out
}

func mapLines(lines []domain.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, len(lines))
	for i, l := range lines {
		out[i] = CartLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			ImageURL:  l.ImageURL,
			Quantity:  l.Quantity,
		}
	}
	return out
}

func mapCart(lines []domain.CartLine, q pricing.Quote) CartResponse {
	return CartResponse{
		Items:          mapLines(lines),
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmount,
		DeliveryFee:    q.DeliveryFee,
		Total:          q.Total,
	}
}

func mapAddress(a domain.Address) AddressResponse {
	return AddressResponse{
		ID:          a.ID,
		FullName:    a.FullName,
		AddressLine: a.AddressLine,
		PhoneNumber: a.PhoneNumber,
		Default:     a.Default,
	}
}

func mapOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Items:          mapLines(o.Items),
		Address:        mapAddress(o.Address),
		PaymentMethod:  o.PaymentMethod,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		DeliveryFee:    o.DeliveryFee,
		Total:          o.Total,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

func mapOrders(os []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(os))
	for i := range os {
		out[i] = mapOrder(&os[i])
	}
	return out
}

func mapUser(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role}
}
