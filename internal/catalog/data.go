package catalog

// mockProducts is the built-in demo inventory. A real deployment would
// plug a live catalog behind the Service interface instead.
var mockProducts = []Product{
	{
		ID:           "p001",
		Name:         "iPhone 15 Pro Max 256GB",
		Description:  "Apple's flagship phone with titanium frame and the A17 Pro chip",
		Price:        1199.00,
		Category:     "electronics",
		ImageURL:     "https://example.com/iphone15.jpg",
		Rating:       4.8,
		ReviewsCount: 1520,
		Stock:        50,
	},
	{
		ID:           "p002",
		Name:         "Nike Air Max 270 Running Shoes",
		Description:  "Classic air-cushioned running shoes, light and breathable",
		Price:        129.00,
		Category:     "sports",
		ImageURL:     "https://example.com/nike.jpg",
		Rating:       4.6,
		ReviewsCount: 890,
		Stock:        120,
	},
	{
		ID:           "p003",
		Name:         "Dyson V15 Cordless Vacuum",
		Description:  "Laser dust detection and deep-cleaning suction",
		Price:        649.00,
		Category:     "home",
		ImageURL:     "https://example.com/dyson.jpg",
		Rating:       4.9,
		ReviewsCount: 650,
		Stock:        30,
	},
	{
		ID:           "p004",
		Name:         "Estée Lauder Advanced Night Repair 50ml",
		Description:  "Repair serum that improves skin tone overnight",
		Price:        105.00,
		Category:     "beauty",
		ImageURL:     "https://example.com/estee.jpg",
		Rating:       4.7,
		ReviewsCount: 2340,
		Stock:        200,
	},
	{
		ID:           "p005",
		Name:         "Uniqlo Ultra Light Down Jacket",
		Description:  "Thin, warm, and packs into its own pouch",
		Price:        79.90,
		Category:     "clothing",
		ImageURL:     "https://example.com/uniqlo.jpg",
		Rating:       4.5,
		ReviewsCount: 1100,
		Stock:        300,
	},
	{
		ID:           "p006",
		Name:         "MacBook Pro 14-inch M3",
		Description:  "Pro laptop with the M3 chip and Liquid Retina XDR display",
		Price:        1599.00,
		Category:     "electronics",
		ImageURL:     "https://example.com/macbook.jpg",
		Rating:       4.9,
		ReviewsCount: 780,
		Stock:        25,
	},
	{
		ID:           "p007",
		Name:         "AirPods Pro 2nd Generation",
		Description:  "Active noise cancelling earbuds with adaptive audio",
		Price:        249.00,
		Category:     "electronics",
		ImageURL:     "https://example.com/airpods.jpg",
		Rating:       4.7,
		ReviewsCount: 3200,
		Stock:        150,
	},
	{
		ID:           "p008",
		Name:         "Adidas Ultraboost 22",
		Description:  "Responsive running shoes with boost midsole",
		Price:        139.00,
		Category:     "sports",
		ImageURL:     "https://example.com/adidas.jpg",
		Rating:       4.4,
		ReviewsCount: 560,
		Stock:        80,
	},
	{
		ID:           "p009",
		Name:         "Kindle Paperwhite 16GB",
		Description:  "Glare-free e-reader with adjustable warm light",
		Price:        149.00,
		Category:     "electronics",
		ImageURL:     "https://example.com/kindle.jpg",
		Rating:       4.6,
		ReviewsCount: 4100,
		Stock:        90,
	},
	{
		ID:           "p010",
		Name:         "Lego Technic Porsche 911",
		Description:  "1:8 scale collector's model with working gearbox",
		Price:        349.00,
		Category:     "toys",
		ImageURL:     "https://example.com/lego.jpg",
		Rating:       4.8,
		ReviewsCount: 430,
		Stock:        15,
	},
}

// categories lists the catalog's browseable sections.
var categories = []string{
	"electronics",
	"clothing",
	"home",
	"beauty",
	"sports",
	"toys",
	"books",
	"food",
}

// suggestionSeeds feed the search suggestion endpoint.
var suggestionSeeds = []string{
	"iPhone 15 Pro",
	"MacBook Pro",
	"AirPods Pro",
	"running shoes",
	"down jacket",
	"cordless vacuum",
	"wireless earbuds",
	"e-reader",
}
