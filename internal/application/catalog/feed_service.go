package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// feedColumns is the fixed column order consumed by the shopping feed
var feedColumns = []string{
	"id", "title", "description", "availability", "condition",
	"price", "link", "image_link", "brand", "google_product_category",
}

// feedPageSize bounds how many products are loaded per batch
const feedPageSize = 500

// FeedService exports the catalog as a CSV shopping feed
type FeedService struct {
	productRepo catalog.ProductRepository
	baseURL     string
	brand       string
}

// NewFeedService creates a new FeedService. baseURL is the public
// storefront URL used to build product links; brand is the fallback when a
// product has none.
func NewFeedService(productRepo catalog.ProductRepository, baseURL, brand string) *FeedService {
	return &FeedService{
		productRepo: productRepo,
		baseURL:     strings.TrimRight(baseURL, "/"),
		brand:       brand,
	}
}

// WriteCSV streams the full catalog feed: a header row followed by one row
// per product, RFC 4180 quoted.
func (s *FeedService) WriteCSV(ctx context.Context, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(feedColumns); err != nil {
		return fmt.Errorf("feed: failed to write header: %w", err)
	}

	for page := 1; ; page++ {
		filter := shared.Filter{
			Page:     page,
			PageSize: feedPageSize,
			OrderBy:  "created_at",
			OrderDir: "asc",
		}
		products, err := s.productRepo.FindAll(ctx, filter)
		if err != nil {
			return fmt.Errorf("feed: failed to load products: %w", err)
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			if err := writer.Write(s.row(&products[i])); err != nil {
				return fmt.Errorf("feed: failed to write row: %w", err)
			}
		}

		if len(products) < feedPageSize {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}

// row renders one product as a feed record
func (s *FeedService) row(p *catalog.Product) []string {
	availability := "out_of_stock"
	if p.IsAvailable() {
		availability = "in_stock"
	}

	brand := p.Brand
	if brand == "" {
		brand = s.brand
	}

	return []string{
		p.ID.String(),
		p.Name,
		p.Description,
		availability,
		string(p.Condition),
		p.Price.StringFixed(2),
		fmt.Sprintf("%s/products/%s", s.baseURL, p.ID),
		p.MainImageURL(),
		brand,
		p.Category,
	}
}
