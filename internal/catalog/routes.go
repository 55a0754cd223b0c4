package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// QueryEnhancer rewrites a raw search query into better search terms,
// optionally with a note about what the user is likely after. A nil
// enhancer disables AI-assisted search.
type QueryEnhancer func(ctx context.Context, query string) (enhanced string, insights string)

// RegisterRoutes mounts the catalog API routes.
func RegisterRoutes(r chi.Router, svc *Service, enhance QueryEnhancer) {
	r.Post("/api/search", handleSearch(svc, enhance))
	r.Get("/api/search/suggestions", handleSuggestions(svc))
	r.Get("/api/categories", handleCategories(svc))
	r.Get("/api/trending", handleTrending(svc))
	r.Get("/api/products/{id}", handleGetProduct(svc))
}

type searchRequest struct {
	Query    string    `json:"query"`
	Category string    `json:"category,omitempty"`
	MinPrice float64   `json:"min_price,omitempty"`
	MaxPrice float64   `json:"max_price,omitempty"`
	SortBy   SortOrder `json:"sort_by,omitempty"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
	UseAI    bool      `json:"use_ai,omitempty"`
}

type searchResponse struct {
	Query       string    `json:"query"`
	Total       int       `json:"total"`
	Page        int       `json:"page"`
	PageSize    int       `json:"page_size"`
	Results     []Product `json:"results"`
	Suggestions []string  `json:"suggestions,omitempty"`
	AIInsights  string    `json:"ai_insights,omitempty"`
}

func handleSearch(svc *Service, enhance QueryEnhancer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}
		if req.Page < 1 {
			req.Page = 1
		}
		if req.PageSize < 1 || req.PageSize > 100 {
			req.PageSize = svc.pageSize
		}

		query := req.Query
		var insights string
		if req.UseAI && enhance != nil {
			query, insights = enhance(r.Context(), req.Query)
		}

		result, err := svc.Search(r.Context(), Criteria{
			Query:    query,
			Category: req.Category,
			MinPrice: req.MinPrice,
			MaxPrice: req.MaxPrice,
			SortBy:   req.SortBy,
			Page:     req.Page,
			PageSize: req.PageSize,
		})
		if err != nil {
			http.Error(w, `{"error":"search failed"}`, http.StatusInternalServerError)
			return
		}

		products := result.Products
		if products == nil {
			products = []Product{}
		}

		writeJSON(w, searchResponse{
			Query:       req.Query,
			Total:       result.Total,
			Page:        req.Page,
			PageSize:    req.PageSize,
			Results:     products,
			Suggestions: svc.Suggestions(req.Query),
			AIInsights:  insights,
		})
	}
}

func handleSuggestions(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestions := svc.Suggestions(r.URL.Query().Get("q"))
		if suggestions == nil {
			suggestions = []string{}
		}
		writeJSON(w, map[string][]string{"suggestions": suggestions})
	}
}

func handleTrending(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		if limit < 1 || limit > 50 {
			limit = 10
		}
		writeJSON(w, map[string][]Product{"products": svc.Trending(limit)})
	}
}

func handleCategories(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{"categories": svc.Categories()})
	}
}

func handleGetProduct(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := svc.GetProduct(chi.URLParam(r, "id"))
		if p == nil {
			http.Error(w, `{"error":"product not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, p)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
