package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Amar9nani/Stock-inventory-management/internal/config"
	"github.com/Amar9nani/Stock-inventory-management/internal/domain"
	"github.com/Amar9nani/Stock-inventory-management/internal/store"
)

var _ store.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, cfg config.Postgres) (*Store, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const productColumns = `id, sku, name, category, price, stock_quantity, items_sold, description`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.StockQuantity, &p.ItemsSold, &p.Description)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return listProducts(ctx, s.db)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listProducts(ctx context.Context, q queryer) ([]domain.Product, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// The id is drawn first so a blank sku can be derived from it.
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval(pg_get_serial_sequence('products', 'id'))`).Scan(&id); err != nil {
		return nil, err
	}
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("PRD%03d", id)
	}

	created, err := scanProduct(tx.QueryRowContext(ctx, `
		INSERT INTO products (id, sku, name, category, price, stock_quantity, items_sold, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		id, product.SKU, product.Name, product.Category, product.Price, product.StockQuantity, product.ItemsSold, product.Description,
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: sku %s already exists", store.ErrConflict, product.SKU)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	updated, err := scanProduct(s.db.QueryRowContext(ctx, `
		UPDATE products SET
			name = COALESCE($2, name),
			category = COALESCE($3, category),
			price = COALESCE($4, price),
			description = COALESCE($5, description),
			sku = COALESCE($6, sku),
			updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, patch.Name, patch.Category, patch.Price, patch.Description, patch.SKU,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: sku already exists", store.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", store.ErrNotFound, id)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return listTransactions(ctx, s.db)
}

func listTransactions(ctx context.Context, q queryer) ([]domain.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, quantity, type, total_price, date
		FROM transactions
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 256)
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.ProductID, &tx.Quantity, &tx.Type, &tx.TotalPrice, &tx.Date); err != nil {
			return nil, err
		}
		tx.Date = tx.Date.UTC()
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *Store) Snapshot(ctx context.Context) ([]domain.Product, []domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	products, err := listProducts(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	transactions, err := listTransactions(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	return products, transactions, tx.Commit()
}

func (s *Store) RecordTransaction(ctx context.Context, productID int64, apply store.ApplyFunc) (*domain.Transaction, *domain.Product, error) {
	pgTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	product, err := scanProduct(pgTx.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: product %d", store.ErrNotFound, productID)
	}
	if err != nil {
		return nil, nil, err
	}

	record, err := apply(&product)
	if err != nil {
		return nil, nil, err
	}

	if _, err := pgTx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = $2, items_sold = $3, updated_at = now()
		WHERE id = $1
	`, product.ID, product.StockQuantity, product.ItemsSold); err != nil {
		return nil, nil, err
	}

	record.ProductID = product.ID
	if err := pgTx.QueryRowContext(ctx, `
		INSERT INTO transactions (product_id, quantity, type, total_price, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, record.ProductID, record.Quantity, string(record.Type), record.TotalPrice, record.Date).Scan(&record.ID); err != nil {
		return nil, nil, err
	}

	if err := pgTx.Commit(); err != nil {
		return nil, nil, err
	}
	return &record, &product, nil
}

const userColumns = `id, username, password_hash, email, role, created_at`

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if user.Username == "" || user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: username and password are required", store.ErrInvalidInput)
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	created, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, email, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Username, user.PasswordHash, user.Email, string(user.Role), user.CreatedAt,
	))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: username %s already exists", store.ErrConflict, user.Username)
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", store.ErrNotFound, username)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %d", store.ErrNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
