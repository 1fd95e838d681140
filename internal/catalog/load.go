package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Shop struct {
		Name       string `yaml:"name"`
		OwnerEmail string `yaml:"owner_email"`
		PaymentQR  string `yaml:"payment_qr"`
	} `yaml:"shop"`
	Slides []struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		Image    string `yaml:"image"`
	} `yaml:"slides"`
	Products []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Price       int64  `yaml:"price"`
		Image       string `yaml:"image"`
		Description string `yaml:"description"`
		Profile     string `yaml:"profile"`
		Material    string `yaml:"material"`
	} `yaml:"products"`
	Testimonials []struct {
		Name  string `yaml:"name"`
		Role  string `yaml:"role"`
		Quote string `yaml:"quote"`
	} `yaml:"testimonials"`
	Reviews []struct {
		Title  string `yaml:"title"`
		Rating int    `yaml:"rating"`
		Author string `yaml:"author"`
	} `yaml:"reviews"`
}

// Load decodes a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	shop := Shop{Name: f.Shop.Name, OwnerEmail: f.Shop.OwnerEmail, PaymentQR: f.Shop.PaymentQR}

	products := make([]Product, 0, len(f.Products))
	for _, p := range f.Products {
		products = append(products, Product{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
			Profile:     p.Profile,
			Material:    p.Material,
		})
	}
	slides := make([]HeroSlide, 0, len(f.Slides))
	for _, s := range f.Slides {
		slides = append(slides, HeroSlide{Title: s.Title, Subtitle: s.Subtitle, Image: s.Image})
	}
	testimonials := make([]Testimonial, 0, len(f.Testimonials))
	for _, t := range f.Testimonials {
		testimonials = append(testimonials, Testimonial{Name: t.Name, Role: t.Role, Quote: t.Quote})
	}
	reviews := make([]Review, 0, len(f.Reviews))
	for _, r := range f.Reviews {
		reviews = append(reviews, Review{Title: r.Title, Rating: r.Rating, Author: r.Author})
	}

	return New(shop, products, slides, testimonials, reviews)
}

// LoadFile reads a catalog from disk. An empty path selects the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in KeyCraft catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// MustDefault is Default for tests and program start-up.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
