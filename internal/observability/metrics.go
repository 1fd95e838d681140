package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/storefront"
)

const metricNamespace = "keycraft/storefront"

// Metrics holds the storefront counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	pageViews     metric.Int64Counter
	itemsAdded    metric.Int64Counter
	unitsBooked   metric.Int64Counter
	ordersDrafted metric.Int64Counter
}

// NewMetrics registers the counters on meter, or on the global provider when
// meter is nil. Registration failures are logged and leave that counter unset.
func NewMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}
	if logger == nil {
		logger = noopLogger
	}

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			logger.Warn("metrics: unable to register counter", zap.String("name", name), zap.Error(err))
			return nil
		}
		return c
	}

	return &Metrics{
		pageViews:     counter("storefront.page_views", "Rendered storefront pages by view"),
		itemsAdded:    counter("storefront.items_added", "Customized line items added to carts"),
		unitsBooked:   counter("storefront.units_booked", "Keycap sets booked across all line items"),
		ordersDrafted: counter("storefront.orders_drafted", "Booking emails drafted from non-empty carts"),
	}
}

// PageView records a rendered page.
func (m *Metrics) PageView(ctx context.Context, view storefront.View) {
	if m == nil || m.pageViews == nil {
		return
	}
	m.pageViews.Add(ctx, 1, metric.WithAttributes(attribute.String("view", string(view))))
}

func (m *Metrics) itemAdded(ctx context.Context, productID string, quantity int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("product_id", productID))
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1, attrs)
	}
	if m.unitsBooked != nil {
		m.unitsBooked.Add(ctx, int64(quantity), attrs)
	}
}

func (m *Metrics) orderDrafted(ctx context.Context, lines int) {
	if m == nil || m.ordersDrafted == nil {
		return
	}
	m.ordersDrafted.Add(ctx, 1, metric.WithAttributes(attribute.Int("lines", lines)))
}

// StorefrontObserver logs storefront events at debug level and feeds the
// item and order counters.
func StorefrontObserver(logger *zap.Logger, m *Metrics) storefront.SessionObserver {
	if logger == nil {
		logger = noopLogger
	}
	return func(sessionID string, e storefront.Event) {
		ctx := context.Background()
		fields := []zap.Field{
			zap.String("session", ShortSessionID(sessionID)),
			zap.String("event", string(e.Kind)),
			zap.String("view", string(e.Snapshot.View)),
			zap.Int("cart_items", e.Snapshot.CartCount()),
		}
		switch e.Kind {
		case storefront.EventItemAdded:
			if e.Item != nil {
				fields = append(fields,
					zap.String("product_id", e.Item.ProductID),
					zap.Int("quantity", e.Item.Quantity),
				)
				m.itemAdded(ctx, e.Item.ProductID, e.Item.Quantity)
			}
		case storefront.EventOrderSent:
			fields = append(fields, zap.Int64("subtotal", e.Snapshot.Subtotal))
			m.orderDrafted(ctx, e.Snapshot.CartCount())
		case storefront.EventSlideChanged:
			fields = append(fields, zap.Int("slide", e.Snapshot.SlideIndex))
		}
		logger.Debug("storefront event", fields...)
	}
}
