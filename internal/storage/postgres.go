package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukman83/catalog-scrap/internal/models"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Migrate creates the run and product tables if they are missing.
func Migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// PostgresWriter records every run and its products. Runs are kept so the
// history can be queried; Read returns the newest one.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(ctx context.Context, databaseURL string) (*PostgresWriter, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Name() string { return "postgres" }

const insertProduct = `
	INSERT INTO products (run_id, position, dedupe_key, title, price, image_url, capacity_mb,
		colour, availability_text, is_available, shipping_text, shipping_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (run_id, dedupe_key) DO NOTHING`

// Write stores the run and its products in one transaction.
func (w *PostgresWriter) Write(ctx context.Context, runID string, products []models.Product) (err error) {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`INSERT INTO scrape_runs (run_id, product_count) VALUES ($1, $2)`,
		runID, len(products)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for i, p := range products {
		batch.Queue(insertProduct,
			runID, i, p.Key(), p.Title, p.Price, p.ImageURL, p.CapacityMB,
			p.Colour, p.AvailabilityText, p.IsAvailable, p.ShippingText, shippingDate(p.ShippingDate))
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (w *PostgresWriter) Read(ctx context.Context) ([]models.Product, error) {
	rows, err := w.pool.Query(ctx, `
		SELECT title, price::float8, image_url, capacity_mb, colour, availability_text,
			is_available, shipping_text, to_char(shipping_date, 'YYYY-MM-DD')
		FROM products
		WHERE run_id = (SELECT run_id FROM scrape_runs ORDER BY scraped_at DESC LIMIT 1)
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Product, error) {
		var p models.Product
		err := row.Scan(&p.Title, &p.Price, &p.ImageURL, &p.CapacityMB, &p.Colour,
			&p.AvailabilityText, &p.IsAvailable, &p.ShippingText, &p.ShippingDate)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(products) == 0 {
		var runs int
		if err := w.pool.QueryRow(ctx, `SELECT count(*) FROM scrape_runs`).Scan(&runs); err != nil {
			return nil, fmt.Errorf("count runs: %w", err)
		}
		if runs == 0 {
			return nil, ErrNotFound
		}
	}
	return products, nil
}

func (w *PostgresWriter) Close() {
	w.pool.Close()
}

func shippingDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil
	}
	return &t
}
