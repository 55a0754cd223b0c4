package catalog

// Product is a single catalog item.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
	Stock        int     `json:"stock"`
}

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
)

// Criteria filters and pages a catalog search. Zero values mean
// "no constraint": an empty query matches everything, zero prices
// disable the corresponding bound.
type Criteria struct {
	Query    string    `json:"query"`
	Category string    `json:"category,omitempty"`
	MinPrice float64   `json:"min_price,omitempty"`
	MaxPrice float64   `json:"max_price,omitempty"`
	SortBy   SortOrder `json:"sort_by,omitempty"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
}

// Result is one page of search results.
type Result struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}
