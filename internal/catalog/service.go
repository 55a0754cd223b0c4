// Package catalog implements the product search capability consumed by
// the conversation handler. It ships with a mock inventory; the search
// contract is what matters to the rest of the system.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/ziadkadry99/shopbot/internal/embeddings"
)

// DefaultPageSize bounds a result page when the caller doesn't say.
const DefaultPageSize = 20

// Service searches the product catalog.
type Service struct {
	products []Product
	semantic *SemanticIndex // optional, may be nil
	pageSize int
}

// NewService creates a catalog service over the built-in inventory.
func NewService() *Service {
	return &Service{products: mockProducts, pageSize: DefaultPageSize}
}

// NewServiceWithProducts creates a catalog service over the given
// inventory. Used by tests and by deployments with their own data.
func NewServiceWithProducts(products []Product) *Service {
	return &Service{products: products, pageSize: DefaultPageSize}
}

// SetMaxResults changes the page size used when a search doesn't
// specify one.
func (s *Service) SetMaxResults(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// EnableSemantic attaches a semantic index used to widen keyword
// searches that come back empty.
func (s *Service) EnableSemantic(idx *SemanticIndex) {
	s.semantic = idx
}

// BuildSemanticIndex indexes the service's inventory with the given
// embedder and enables semantic fallback search.
func (s *Service) BuildSemanticIndex(ctx context.Context, embedder embeddings.Embedder) error {
	idx, err := NewSemanticIndex(ctx, embedder, s.products)
	if err != nil {
		return err
	}
	s.semantic = idx
	return nil
}

// Search returns the catalog entries matching the criteria, paged.
func (s *Service) Search(ctx context.Context, c Criteria) (*Result, error) {
	matched := s.filter(c)

	// Keyword search found nothing; try the semantic index before
	// giving up, so "something to keep me warm" can still find a
	// jacket.
	if len(matched) == 0 && c.Query != "" && s.semantic != nil {
		ids, err := s.semantic.Query(ctx, c.Query, s.pageSize)
		if err == nil {
			matched = s.byIDs(ids, c)
		}
	}

	sortProducts(matched, c.SortBy)

	page := c.Page
	if page < 1 {
		page = 1
	}
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	total := len(matched)
	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	return &Result{
		Total:    total,
		Products: matched[offset:end],
	}, nil
}

// GetProduct returns the product with the given ID, or nil.
func (s *Service) GetProduct(id string) *Product {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p
		}
	}
	return nil
}

// Categories lists the catalog's categories.
func (s *Service) Categories() []string {
	return categories
}

// Trending returns up to limit products ranked by rating weighted by
// review volume.
func (s *Service) Trending(limit int) []Product {
	if limit <= 0 {
		limit = 10
	}

	ranked := make([]Product, len(s.products))
	copy(ranked, s.products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating*float64(ranked[i].ReviewsCount) >
			ranked[j].Rating*float64(ranked[j].ReviewsCount)
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// Suggestions returns up to five completion candidates for a partial
// query.
func (s *Service) Suggestions(query string) []string {
	if query == "" {
		return nil
	}

	lower := strings.ToLower(query)
	var out []string
	for _, seed := range suggestionSeeds {
		if strings.Contains(strings.ToLower(seed), lower) {
			out = append(out, seed)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

// filter applies keyword, category, and price constraints.
func (s *Service) filter(c Criteria) []Product {
	query := strings.ToLower(c.Query)

	var matched []Product
	for _, p := range s.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.MinPrice > 0 && p.Price < c.MinPrice {
			continue
		}
		if c.MaxPrice > 0 && p.Price > c.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// byIDs resolves semantic hits back to products, still honoring the
// category and price constraints.
func (s *Service) byIDs(ids []string, c Criteria) []Product {
	var matched []Product
	for _, id := range ids {
		p := s.GetProduct(id)
		if p == nil {
			continue
		}
		if c.Category != "" && p.Category != c.Category {
			continue
		}
		if c.MinPrice > 0 && p.Price < c.MinPrice {
			continue
		}
		if c.MaxPrice > 0 && p.Price > c.MaxPrice {
			continue
		}
		matched = append(matched, *p)
	}
	return matched
}

func sortProducts(products []Product, order SortOrder) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	}
}
