package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/maltedev/aliexpress-product-scraper/internal/models"
)

const EventProductSaved = "PRODUCT_SAVED"

var ErrProductNotFound = errors.New("product not found")

// ProductRecord is one row of the product index.
type ProductRecord struct {
	ID            uuid.UUID `db:"id"`
	ProductID     string    `db:"product_id"`
	Title         string    `db:"title"`
	Price         string    `db:"price"`
	ProductURL    string    `db:"product_url"`
	Category      string    `db:"category"`
	Subcategory   string    `db:"subcategory"`
	ItemType      string    `db:"item_type"`
	StorageDir    string    `db:"storage_dir"`
	MainImages    int       `db:"main_images"`
	VariantImages int       `db:"variant_images"`
	SavedAt       time.Time `db:"saved_at"`
}

type ProductRepository struct {
	db     *DB
	outbox *OutboxRepository
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db, outbox: NewOutboxRepository(db)}
}

// IndexSaved upserts the index row for a persisted product and queues a
// PRODUCT_SAVED outbox event in the same transaction.
func (r *ProductRepository) IndexSaved(ctx context.Context, stored *models.StoredProduct, location string) error {
	payload, err := json.Marshal(map[string]any{
		"product_id":     stored.ProductID,
		"title":          stored.Title,
		"price":          stored.Price,
		"product_url":    stored.ProductURL,
		"category":       stored.Category,
		"storage_dir":    location,
		"main_images":    len(stored.MainImageFiles),
		"variant_images": len(stored.VariantImageFiles),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO product (
				id, product_id, title, price, product_url,
				category, subcategory, item_type, storage_dir,
				main_images, variant_images, saved_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (product_id) DO UPDATE SET
				title = EXCLUDED.title,
				price = EXCLUDED.price,
				storage_dir = EXCLUDED.storage_dir,
				main_images = EXCLUDED.main_images,
				variant_images = EXCLUDED.variant_images,
				saved_at = EXCLUDED.saved_at`

		_, err := tx.Exec(ctx, query,
			uuid.New(), stored.ProductID, stored.Title, stored.Price, stored.ProductURL,
			stored.Category, stored.Subcategory, stored.ItemType, location,
			len(stored.MainImageFiles), len(stored.VariantImageFiles), time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert product: %w", err)
		}

		return r.outbox.InsertWithTx(ctx, tx, &OutboxEvent{
			ProductID: stored.ProductID,
			EventType: EventProductSaved,
			Payload:   payload,
		})
	})
}

func (r *ProductRepository) GetByProductID(ctx context.Context, productID string) (*ProductRecord, error) {
	query := `
		SELECT
			id, product_id, title, price, product_url,
			category, subcategory, item_type, storage_dir,
			main_images, variant_images, saved_at
		FROM product
		WHERE product_id = $1`

	record := &ProductRecord{}
	err := r.db.pool.QueryRow(ctx, query, productID).Scan(
		&record.ID, &record.ProductID, &record.Title, &record.Price, &record.ProductURL,
		&record.Category, &record.Subcategory, &record.ItemType, &record.StorageDir,
		&record.MainImages, &record.VariantImages, &record.SavedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return record, nil
}

func (r *ProductRepository) CountSaved(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM product").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
