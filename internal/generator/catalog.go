package generator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Lumos-Labs-HQ/podgen/internal/dataset"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/google/uuid"
)

type Store struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Region string
}

func (s Store) Record() []string {
	return []string{s.ID.String(), s.Code, s.Name, s.Region}
}

type Product struct {
	ID   uuid.UUID
	Name string
}

func (p Product) Record() []string {
	return []string{p.ID.String(), p.Name}
}

// Sale is one transaction. Total is drawn on its own and is not the sum of the
// sale's line items: the catalog carries no prices.
type Sale struct {
	ID        uuid.UUID
	StoreCode string
	Total     float64
	Timestamp time.Time
	Promotion string
	Member    string
}

func (s Sale) Record() []string {
	return []string{
		s.ID.String(),
		s.StoreCode,
		strconv.FormatFloat(s.Total, 'f', 2, 64),
		s.Timestamp.Format(dataset.TimestampLayout),
		s.Promotion,
		s.Member,
	}
}

type SaleItem struct {
	SaleID    uuid.UUID
	ProductID uuid.UUID
	Qty       int
}

func (i SaleItem) Record() []string {
	return []string{i.SaleID.String(), i.ProductID.String(), strconv.Itoa(i.Qty)}
}

// GenerateStores gives every configured store a fresh id, keeping the configured order.
func GenerateStores(rng *RNG, specs []StoreSpec) []Store {
	stores := make([]Store, len(specs))
	for i, spec := range specs {
		stores[i] = Store{
			ID:     rng.UUID(),
			Code:   spec.Code,
			Name:   spec.Name,
			Region: spec.Region,
		}
	}
	return stores
}

// GenerateProducts creates n products named after their index.
func GenerateProducts(rng *RNG, n int) ([]Product, error) {
	if n < 0 {
		return nil, failure.Configurationf("product count must be non-negative, got %d", n)
	}
	products := make([]Product, n)
	for i := range products {
		products[i] = Product{ID: rng.UUID(), Name: ProductName(i)}
	}
	return products, nil
}

// ProductName is the zero-padded catalog name of product i.
func ProductName(i int) string {
	return fmt.Sprintf("Product-%05d", i)
}
