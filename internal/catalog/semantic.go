package catalog

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/shopbot/internal/embeddings"
)

const collectionName = "products"

// SemanticIndex answers similarity queries over product descriptions.
// It backs the fallback path for searches whose keywords match nothing.
type SemanticIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewSemanticIndex builds an in-memory index over the given products.
func NewSemanticIndex(ctx context.Context, embedder embeddings.Embedder, products []Product) (*SemanticIndex, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(products))
	for i, p := range products {
		docs[i] = chromem.Document{
			ID:      p.ID,
			Content: p.Name + ". " + p.Description,
			Metadata: map[string]string{
				"category": p.Category,
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("index products: %w", err)
	}

	return &SemanticIndex{db: db, collection: col}, nil
}

// Query returns the IDs of the products most similar to the query text,
// best match first.
func (s *SemanticIndex) Query(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids, nil
}

// Count reports how many products are indexed.
func (s *SemanticIndex) Count() int {
	return s.collection.Count()
}
