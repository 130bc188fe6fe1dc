package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

const minProductNameLength = 3

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.ProductView, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return filterProducts(products, filter), nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return domain.Product{}, err
	}
	price, err := validatePrice(req.Price)
	if err != nil {
		return domain.Product{}, err
	}
	if req.StockQuantity < 0 || req.StockQuantity > domain.MaxQuantity {
		return domain.Product{}, fmt.Errorf("%w: stock quantity must be between 0 and %d", store.ErrInvalidInput, domain.MaxQuantity)
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		SKU:           strings.ToUpper(strings.TrimSpace(req.SKU)),
		Name:          name,
		Category:      domain.NormalizeCategory(req.Category),
		Price:         price,
		StockQuantity: req.StockQuantity,
		Description:   strings.TrimSpace(req.Description),
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.audit(ctx, "product_create", "product", created.ID,
		slog.String("sku", created.SKU),
		slog.String("price", created.Price.StringFixed(2)))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	var patch domain.ProductPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return domain.Product{}, err
		}
		patch.Name = &name
	}
	if req.Category != nil {
		category := domain.NormalizeCategory(*req.Category)
		patch.Category = &category
	}
	if req.Price != nil {
		price, err := validatePrice(*req.Price)
		if err != nil {
			return domain.Product{}, err
		}
		patch.Price = &price
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		patch.Description = &description
	}
	if req.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*req.SKU))
		if sku == "" {
			return domain.Product{}, fmt.Errorf("%w: sku must not be empty", store.ErrInvalidInput)
		}
		patch.SKU = &sku
	}

	updated, err := s.repo.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, err
	}
	s.audit(ctx, "product_update", "product", updated.ID)
	return *updated, nil
}

// DeleteProduct removes the product. Its transactions stay and keep pointing
// at the old id.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "product_delete", "product", id)
	return nil
}

func validateName(name string) error {
	if utf8.RuneCountInString(name) < minProductNameLength {
		return fmt.Errorf("%w: name must be at least %d characters", store.ErrInvalidInput, minProductNameLength)
	}
	return nil
}

// validatePrice rounds to cents and keeps the result within [0, MaxPrice].
func validatePrice(price decimal.Decimal) (decimal.Decimal, error) {
	rounded := price.Round(2)
	if rounded.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: price must not be negative", store.ErrInvalidInput)
	}
	if rounded.GreaterThan(domain.MaxPrice) {
		return decimal.Decimal{}, fmt.Errorf("%w: price must not exceed %s", store.ErrInvalidInput, domain.MaxPrice.StringFixed(2))
	}
	return rounded, nil
}

func filterProducts(products []domain.Product, filter domain.ProductFilter) []domain.ProductView {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)

	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		view := domain.NewProductView(p)
		if filter.Status != "" && view.StockStatus != filter.Status {
			continue
		}
		views = append(views, view)
	}

	sortProducts(views, filter.Sort)
	return views
}

func matchesSearch(p domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.SKU), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func sortProducts(views []domain.ProductView, sort domain.ProductSort) {
	var compare func(a, b domain.ProductView) int
	switch sort {
	case domain.SortName:
		compare = func(a, b domain.ProductView) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case domain.SortPriceAsc:
		compare = func(a, b domain.ProductView) int { return a.Price.Cmp(b.Price) }
	case domain.SortPriceDesc:
		compare = func(a, b domain.ProductView) int { return b.Price.Cmp(a.Price) }
	case domain.SortStockAsc:
		compare = func(a, b domain.ProductView) int { return cmp.Compare(a.StockQuantity, b.StockQuantity) }
	case domain.SortStockDesc:
		compare = func(a, b domain.ProductView) int { return cmp.Compare(b.StockQuantity, a.StockQuantity) }
	case domain.SortSoldDesc:
		compare = func(a, b domain.ProductView) int { return cmp.Compare(b.ItemsSold, a.ItemsSold) }
	default:
		return
	}
	slices.SortStableFunc(views, compare)
}
