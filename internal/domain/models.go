package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ItemsSold     int             `json:"items_sold"`
	Description   string          `json:"description"`
}

// ProductView is a product as listed to clients, with its derived stock status.
type ProductView struct {
	Product
	StockStatus StockStatus `json:"stock_status"`
}

func NewProductView(p Product) ProductView {
	return ProductView{Product: p, StockStatus: StockStatusOf(p.StockQuantity)}
}

// ProductPatch carries the fields an update may replace. Nil fields are kept.
type ProductPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Description *string
	SKU         *string
}

type ProductCreateRequest struct {
	SKU           string          `json:"sku" validate:"omitempty,max=32"`
	Name          string          `json:"name" validate:"required,min=3,max=120"`
	Category      string          `json:"category" validate:"max=64"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0,max=1000000"`
	Description   string          `json:"description" validate:"max=500"`
}

type ProductUpdateRequest struct {
	SKU         *string          `json:"sku,omitempty" validate:"omitempty,max=32"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=3,max=120"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=64"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
}

type ProductFilter struct {
	Search   string
	Category string
	Status   StockStatus
	Sort     ProductSort
}

type Transaction struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	Type       TransactionType `json:"type"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Date       time.Time       `json:"date"`
}

// TransactionView is a transaction enriched with the name of its product.
type TransactionView struct {
	Transaction
	ProductName string `json:"product_name"`
}

type TransactionRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0,max=1000000"`
	Type      TransactionType `json:"type" validate:"required,enum"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	User        User   `json:"user"`
}

type Actor struct {
	UserID    int64
	Username  string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

type StockOverview struct {
	TotalProducts  int             `json:"total_products"`
	LowStockCount  int             `json:"low_stock_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalItemsSold int             `json:"total_items_sold"`
}

type DailySales struct {
	Date      string          `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	ItemsSold int             `json:"items_sold"`
}

type TopProduct struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	ItemsSold int             `json:"items_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}
