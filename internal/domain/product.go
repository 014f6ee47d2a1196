package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. The (Name, Brand) pair is
// unique across all products; the database enforces it with a unique index.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Brand       string    `json:"brand" db:"brand"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Inventory   int       `json:"inventory" db:"inventory"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Category represents a product category. Categories are shared between
// products and outlive the products that reference them.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Image represents an image owned by exactly one product. Images are removed
// together with their owning product.
type Image struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileType  string    `json:"file_type" db:"file_type"`
	Data      []byte    `json:"-" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
