package cart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"keycraftcaps.com/keycraft-web/internal/catalog"
)

var (
	// ErrColorThemeRequired is reported when the colour theme is blank.
	ErrColorThemeRequired = errors.New("color theme is required")
	// ErrLegendTextRequired is reported when the legend text is blank.
	ErrLegendTextRequired = errors.New("legend text is required")
)

// MaxQuantity caps the sets booked on one line item.
const MaxQuantity = 999

// Field names used in ValidationError.
const (
	FieldColorTheme = "colorTheme"
	FieldLegendText = "legendText"
)

// ValidationError lists the customization fields that failed validation.
type ValidationError struct {
	fields []string
	errs   []error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("customization invalid: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field names.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.fields {
		if f == field {
			return true
		}
	}
	return false
}

// Unwrap exposes the per-field sentinels to errors.Is.
func (e *ValidationError) Unwrap() []error { return e.errs }

// Customization is the bag of fields collected from one form submission.
type Customization struct {
	ColorTheme  string // required
	LegendText  string // required
	ArtisanIcon string // optional
	Quantity    int    // clamped to 1..MaxQuantity
}

// Normalize trims text fields and clamps the quantity to 1..MaxQuantity.
func (c Customization) Normalize() Customization {
	c.ColorTheme = strings.TrimSpace(c.ColorTheme)
	c.LegendText = strings.TrimSpace(c.LegendText)
	c.ArtisanIcon = strings.TrimSpace(c.ArtisanIcon)
	c.Quantity = clampQuantity(c.Quantity)
	return c
}

func clampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxQuantity:
		return MaxQuantity
	}
	return n
}

// Validate checks required fields after normalisation.
func (c Customization) Validate() error {
	c = c.Normalize()
	var verr ValidationError
	if c.ColorTheme == "" {
		verr.fields = append(verr.fields, FieldColorTheme)
		verr.errs = append(verr.errs, ErrColorThemeRequired)
	}
	if c.LegendText == "" {
		verr.fields = append(verr.fields, FieldLegendText)
		verr.errs = append(verr.errs, ErrLegendTextRequired)
	}
	if len(verr.fields) > 0 {
		return &verr
	}
	return nil
}

// ParseQuantity coerces raw form input into a quantity. Fractions are
// truncated; blank, unparsable or values below 1 yield 1 and values above
// MaxQuantity yield MaxQuantity.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		switch {
		case n < 1:
			return 1
		case n > MaxQuantity:
			return MaxQuantity
		}
		return int(n)
	} else if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return 1
		}
		return MaxQuantity
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	switch {
	case math.IsNaN(f) || f < 1:
		return 1
	case f > MaxQuantity:
		return MaxQuantity
	}
	return int(f)
}

// LineItem is one booked customization. Product name and price are
// snapshots taken when the item was added.
type LineItem struct {
	ID          string
	ProductID   string
	ProductName string
	UnitPrice   int64
	ColorTheme  string
	LegendText  string
	ArtisanIcon string
	Quantity    int
	AddedAt     time.Time
}

// LineTotal is quantity × unit price.
func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Subtotal sums the line totals of items.
func Subtotal(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// Option customises a Cart.
type Option func(*Cart)

// WithClock overrides the time source used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides the line item id source.
func WithIDGenerator(next func() string) Option {
	return func(c *Cart) {
		if next != nil {
			c.newID = next
		}
	}
}

// Cart is an append-only sequence of line items. It is not safe for
// concurrent use; storefront.Store serialises access per session.
type Cart struct {
	items []LineItem
	now   func() time.Time
	newID func() string
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add validates the customization and appends a line item for p.
func (c *Cart) Add(p catalog.Product, cz Customization) (LineItem, error) {
	if err := cz.Validate(); err != nil {
		return LineItem{}, err
	}
	cz = cz.Normalize()
	item := LineItem{
		ID:          c.newID(),
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		ColorTheme:  cz.ColorTheme,
		LegendText:  cz.LegendText,
		ArtisanIcon: cz.ArtisanIcon,
		Quantity:    cz.Quantity,
		AddedAt:     c.now(),
	}
	c.items = append(c.items, item)
	return item, nil
}

// Items returns the line items oldest first.
func (c *Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Len is the number of line items.
func (c *Cart) Len() int { return len(c.items) }

// Empty reports whether nothing has been added.
func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Subtotal is recomputed from the current items on every call.
func (c *Cart) Subtotal() int64 { return Subtotal(c.items) }
