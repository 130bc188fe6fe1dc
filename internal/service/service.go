package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Amar9nani/Stock-inventory-management/internal/analytics"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/ledger"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

var ErrForbidden = errors.New("admin role required")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo      store.Repository
	ledger    *ledger.Ledger
	analytics *analytics.Engine
	logger    *slog.Logger
}

func New(repo store.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		ledger:    ledger.New(repo, logger),
		analytics: analytics.NewEngine(repo),
		logger:    logger.With(slog.String("component", "service")),
	}
}

func (s *Service) ListTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	products, transactions, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	views := make([]domain.TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		name, ok := names[tx.ProductID]
		if !ok {
			name = "Unknown product"
		}
		views = append(views, domain.TransactionView{Transaction: tx, ProductName: name})
	}
	return views, nil
}

func (s *Service) RecordTransaction(ctx context.Context, req domain.TransactionRequest) (*ledger.Receipt, error) {
	receipt, err := s.ledger.RecordTransaction(ctx, req.ProductID, req.Quantity, req.Type)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, "transaction_record", "transaction", receipt.Transaction.ID,
		slog.String("type", string(receipt.Transaction.Type)),
		slog.Int("quantity", receipt.Transaction.Quantity))
	return receipt, nil
}

func (s *Service) StockOverview(ctx context.Context) (domain.StockOverview, error) {
	return s.analytics.StockOverview(ctx)
}

func (s *Service) SalesByDay(ctx context.Context, filter analytics.SalesFilter) ([]domain.DailySales, error) {
	return s.analytics.SalesByDay(ctx, filter)
}

func (s *Service) TopProducts(ctx context.Context, n int) ([]domain.TopProduct, error) {
	return s.analytics.TopProducts(ctx, n)
}

// RegisterUser creates a regular account. The password must already be hashed.
func (s *Service) RegisterUser(ctx context.Context, username string, passwordHash string, email string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", store.ErrInvalidInput)
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("%w: username already exists", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	created, err := s.repo.CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        strings.TrimSpace(email),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", created.ID), slog.String("username", created.Username))
	return *created, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that username
// already exists. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, admin domain.User) (domain.User, bool, error) {
	existing, err := s.repo.GetUserByUsername(ctx, admin.Username)
	if err == nil {
		return *existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, false, err
	}

	admin.Role = domain.RoleAdmin
	created, err := s.repo.CreateUser(ctx, admin)
	if errors.Is(err, store.ErrConflict) {
		// Another instance created it first.
		existing, getErr := s.repo.GetUserByUsername(ctx, admin.Username)
		if getErr != nil {
			return domain.User{}, false, getErr
		}
		return *existing, false, nil
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return *created, true, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	actor, _ := ActorFromContext(ctx)
	if actor.UserID == id {
		return fmt.Errorf("%w: cannot delete your own account", store.ErrInvalidInput)
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, "user_delete", "user", id)
	return nil
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *Service) audit(ctx context.Context, action string, entityType string, entityID int64, attrs ...slog.Attr) {
	actor, _ := ActorFromContext(ctx)
	args := []any{
		slog.String("action", action),
		slog.String("entity_type", entityType),
		slog.Int64("entity_id", entityID),
		slog.String("actor", actor.Username),
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	s.logger.InfoContext(ctx, "audit", args...)
}
