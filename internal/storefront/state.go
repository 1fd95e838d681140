package storefront

import (
	"errors"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/order"
)

// ErrEmptyCart is returned by SendOrder when nothing has been booked.
var ErrEmptyCart = errors.New("cart is empty")

// EventKind names the command that changed a State.
type EventKind string

const (
	EventNavigated    EventKind = "navigated"
	EventSlideChanged EventKind = "slide_changed"
	EventItemAdded    EventKind = "item_added"
	EventOrderSent    EventKind = "order_sent"
)

// Event is delivered to observers after a command has been applied.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Item     *cart.LineItem     // EventItemAdded
	Mail     *order.MailRequest // EventOrderSent
}

// Observer receives change notifications.
type Observer func(Event)

// Snapshot is an immutable copy of a State used for rendering.
type Snapshot struct {
	Navigation
	SelectedProduct catalog.Product
	Items           []cart.LineItem
	Subtotal        int64
}

// CartCount is the number of line items.
func (s Snapshot) CartCount() int { return len(s.Items) }

// CanSendOrder reports whether the send-order action is enabled.
func (s Snapshot) CanSendOrder() bool { return len(s.Items) > 0 }

// State is one actor's storefront: navigation plus cart, bound to a catalog.
// Commands are applied one at a time; State itself does no locking.
type State struct {
	catalog   *catalog.Catalog
	nav       Navigation
	cart      *cart.Cart
	observers []Observer
}

// NewState returns a fresh state in its start configuration.
func NewState(c *catalog.Catalog, opts ...cart.Option) *State {
	return &State{
		catalog: c,
		nav:     NewNavigation(c),
		cart:    cart.New(opts...),
	}
}

// OnChange registers an observer called after every mutation.
func (s *State) OnChange(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// Catalog returns the catalog the state is bound to.
func (s *State) Catalog() *catalog.Catalog { return s.catalog }

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	p, ok := s.catalog.Product(s.nav.SelectedProductID)
	if !ok {
		p = s.catalog.First()
	}
	return Snapshot{
		Navigation:      s.nav,
		SelectedProduct: p,
		Items:           s.cart.Items(),
		Subtotal:        s.cart.Subtotal(),
	}
}

// GoTo switches view unconditionally (unknown views are ignored).
func (s *State) GoTo(v View) Snapshot {
	if s.nav.GoTo(v) {
		s.notify(Event{Kind: EventNavigated})
	}
	return s.Snapshot()
}

// SelectProduct opens the product view for id; unknown ids are a no-op.
func (s *State) SelectProduct(id string) Snapshot {
	if s.nav.SelectProduct(s.catalog, id) {
		s.notify(Event{Kind: EventNavigated})
	}
	return s.Snapshot()
}

// SetSlide moves the hero carousel, clamping out-of-range indexes.
func (s *State) SetSlide(index int) Snapshot {
	before := s.nav.SlideIndex
	s.nav.SetSlide(index, s.catalog.SlideCount())
	if s.nav.SlideIndex != before {
		s.notify(Event{Kind: EventSlideChanged})
	}
	return s.Snapshot()
}

// AddItem books cz against the selected product. Navigation is unchanged.
func (s *State) AddItem(cz cart.Customization) (cart.LineItem, error) {
	p, ok := s.catalog.Product(s.nav.SelectedProductID)
	if !ok {
		p = s.catalog.First()
	}
	item, err := s.cart.Add(p, cz)
	if err != nil {
		return cart.LineItem{}, err
	}
	s.notify(Event{Kind: EventItemAdded, Item: &item})
	return item, nil
}

// SubmitCustomization is AddItem followed by GoTo(ViewOrder).
func (s *State) SubmitCustomization(cz cart.Customization) (Snapshot, error) {
	if _, err := s.AddItem(cz); err != nil {
		return s.Snapshot(), err
	}
	return s.GoTo(ViewOrder), nil
}

// SendOrder builds the booking draft. An empty cart yields ErrEmptyCart and
// no draft.
func (s *State) SendOrder(c order.Composer) (order.MailRequest, error) {
	if s.cart.Empty() {
		return order.MailRequest{}, ErrEmptyCart
	}
	req := c.Compose(s.cart.Items())
	s.notify(Event{Kind: EventOrderSent, Mail: &req})
	return req, nil
}

// Composer returns the default composer for the bound catalog's shop.
func (s *State) Composer() order.Composer {
	shop := s.catalog.Shop()
	return order.NewComposer(shop.Name, shop.OwnerEmail)
}

func (s *State) notify(e Event) {
	if len(s.observers) == 0 {
		return
	}
	e.Snapshot = s.Snapshot()
	for _, o := range s.observers {
		o(e)
	}
}
