package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is returned when catalog data fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Product is a sellable keycap set. Prices are whole currency units.
type Product struct {
	ID          string
	Name        string
	Price       int64
	Image       string
	Description string // markdown
	Profile     string
	Material    string
}

// Testimonial is a customer quote shown on the home page.
type Testimonial struct {
	Name  string
	Role  string
	Quote string
}

// Review is a short star review.
type Review struct {
	Title  string
	Rating int
	Author string
}

// HeroSlide is one entry of the home page carousel.
type HeroSlide struct {
	Title    string
	Subtitle string
	Image    string
}

// Shop holds the storefront identity and checkout hand-off details.
type Shop struct {
	Name       string
	OwnerEmail string
	PaymentQR  string
}

// Catalog is the read-only reference data shared by every session.
// It is safe for concurrent use because nothing mutates it after Load.
type Catalog struct {
	shop         Shop
	products     []Product
	index        map[string]int
	testimonials []Testimonial
	reviews      []Review
	slides       []HeroSlide
}

// New validates the inputs and builds an immutable catalog.
func New(shop Shop, products []Product, slides []HeroSlide, testimonials []Testimonial, reviews []Review) (*Catalog, error) {
	var problems []string
	if strings.TrimSpace(shop.OwnerEmail) == "" {
		problems = append(problems, "shop.owner_email is required")
	}
	if len(products) == 0 {
		problems = append(problems, "at least one product is required")
	}
	if len(slides) == 0 {
		problems = append(problems, "at least one hero slide is required")
	}

	products = append([]Product(nil), products...)
	index := make(map[string]int, len(products))
	for i, p := range products {
		id := strings.TrimSpace(p.ID)
		products[i].ID = id
		if id == "" {
			problems = append(problems, fmt.Sprintf("products[%d].id is required", i))
		} else if _, dup := index[id]; dup {
			problems = append(problems, fmt.Sprintf("products[%d].id %q is duplicated", i, id))
		} else {
			index[id] = i
		}
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("products[%d].name is required", i))
		}
		if p.Price <= 0 {
			problems = append(problems, fmt.Sprintf("products[%d].price must be positive", i))
		}
	}
	for i, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			problems = append(problems, fmt.Sprintf("reviews[%d].rating must be between 1 and 5", i))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}

	if shop.Name == "" {
		shop.Name = "KeyCraft"
	}
	return &Catalog{
		shop:         shop,
		products:     products,
		index:        index,
		testimonials: append([]Testimonial(nil), testimonials...),
		reviews:      append([]Review(nil), reviews...),
		slides:       append([]HeroSlide(nil), slides...),
	}, nil
}

// Shop returns the storefront identity.
func (c *Catalog) Shop() Shop { return c.shop }

// WithOwnerEmail returns a copy of the catalog whose orders go to email.
// An empty email keeps the configured recipient.
func (c *Catalog) WithOwnerEmail(email string) *Catalog {
	email = strings.TrimSpace(email)
	if email == "" || email == c.shop.OwnerEmail {
		return c
	}
	cp := *c
	cp.shop.OwnerEmail = email
	return &cp
}

// Products returns the products in catalog order.
func (c *Catalog) Products() []Product {
	return append([]Product(nil), c.products...)
}

// Product looks a product up by id.
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Contains reports whether id names a catalog product.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// First returns the first product; New guarantees there is one.
func (c *Catalog) First() Product { return c.products[0] }

// Testimonials returns the home page quotes.
func (c *Catalog) Testimonials() []Testimonial {
	return append([]Testimonial(nil), c.testimonials...)
}

// Reviews returns the star reviews.
func (c *Catalog) Reviews() []Review {
	return append([]Review(nil), c.reviews...)
}

// Slides returns the hero carousel.
func (c *Catalog) Slides() []HeroSlide {
	return append([]HeroSlide(nil), c.slides...)
}

// SlideCount is the number of hero slides (always >= 1).
func (c *Catalog) SlideCount() int { return len(c.slides) }

// Slide returns the slide at i, clamped into range.
func (c *Catalog) Slide(i int) HeroSlide {
	if i < 0 {
		i = 0
	}
	if i >= len(c.slides) {
		i = len(c.slides) - 1
	}
	return c.slides[i]
}
