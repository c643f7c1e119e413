package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/InnoTechCollege/StripeExample/domain"
)

var ErrItemNotFound = errors.New("item not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	ListItems(ctx context.Context) ([]*domain.Item, error)
	BeginCheckout(ctx context.Context) (CheckoutTx, error)
	UpdatePurchaseSuccess(ctx context.Context, intentID, email string) (int64, error)
	GetPurchasesByIntent(ctx context.Context, intentID string) ([]*domain.Purchase, error)
	Close() error
	RunMigrations(*Credentials) error
}

// CheckoutTx scopes all reads and writes of one checkout call to a single
// transaction. Callers must Commit or Rollback on every exit path.
type CheckoutTx interface {
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	InsertPurchase(ctx context.Context, itemID int64, intentID string) (int64, error)
	Commit() error
	Rollback() error
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) ListItems(ctx context.Context) ([]*domain.Item, error) {
	query := `
		SELECT id, name, price, image_url, currency, created_at
		FROM items
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it := &domain.Item{}
		err := rows.Scan(
			&it.ID,
			&it.Name,
			&it.Price,
			&it.ImageURL,
			&it.Currency,
			&it.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func (r *Repository) BeginCheckout(ctx context.Context) (CheckoutTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	return &checkoutTx{tx: tx}, nil
}

// UpdatePurchaseSuccess confirms every purchase row sharing the given
// payment-intent id. Returns the number of rows affected; zero means the
// payment has no matching pending purchase.
func (r *Repository) UpdatePurchaseSuccess(ctx context.Context, intentID, email string) (int64, error) {
	query := `
		UPDATE purchases
		SET success = TRUE, email = $1
		WHERE stripe_intent_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, email, intentID)
	if err != nil {
		return 0, fmt.Errorf("failed to update purchases: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

// GetPurchasesByIntent returns every purchase row sharing the given
// correlation id, pending or confirmed.
func (r *Repository) GetPurchasesByIntent(ctx context.Context, intentID string) ([]*domain.Purchase, error) {
	query := `
		SELECT id, item_id, stripe_intent_id, success, email, created_at
		FROM purchases
		WHERE stripe_intent_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		p := &domain.Purchase{}
		var email sql.NullString
		err := rows.Scan(
			&p.ID,
			&p.ItemID,
			&p.StripeIntentID,
			&p.Success,
			&email,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		if email.Valid {
			p.Email = &email.String
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return purchases, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type checkoutTx struct {
	tx *sql.Tx
}

func (t *checkoutTx) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	query := `
		SELECT id, name, price, image_url, currency, created_at
		FROM items
		WHERE id = $1
	`

	it := &domain.Item{}
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&it.ID,
		&it.Name,
		&it.Price,
		&it.ImageURL,
		&it.Currency,
		&it.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item %d: %w", id, err)
	}
	return it, nil
}

func (t *checkoutTx) InsertPurchase(ctx context.Context, itemID int64, intentID string) (int64, error) {
	query := `
		INSERT INTO purchases (item_id, stripe_intent_id)
		VALUES ($1, $2)
	`

	res, err := t.tx.ExecContext(ctx, query, itemID, intentID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purchase for item %d: %w", itemID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

func (t *checkoutTx) Commit() error {
	return t.tx.Commit()
}

func (t *checkoutTx) Rollback() error {
	return t.tx.Rollback()
}
