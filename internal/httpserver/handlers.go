package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
	custommw "keycraftcaps.com/keycraft-web/internal/httpserver/middleware"
	"keycraftcaps.com/keycraft-web/internal/nav"
	"keycraftcaps.com/keycraft-web/internal/observability"
	"keycraftcaps.com/keycraft-web/internal/order"
	"keycraftcaps.com/keycraft-web/internal/storefront"
	"keycraftcaps.com/keycraft-web/internal/templates"
)

type handlers struct {
	catalog  *catalog.Catalog
	store    *storefront.Store
	renderer *templates.Renderer
	metrics  *observability.Metrics
	baseURL  string
	now      func() time.Time
}

var pageForView = map[storefront.View]templates.Page{
	storefront.ViewHome:    templates.PageHome,
	storefront.ViewProduct: templates.PageProduct,
	storefront.ViewOrder:   templates.PageOrder,
}

// home renders the landing page; ?slide=N moves the carousel first.
func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	slide, hasSlide := parseSlide(r.URL.Query().Get("slide"))
	snap, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		st.GoTo(storefront.ViewHome)
		if hasSlide {
			st.SetSlide(slide)
		}
		return st.Snapshot()
	})
	if ok {
		h.renderSnapshot(w, r, snap, templates.EmptyForm(), http.StatusOK)
	}
}

func (h *handlers) product(w http.ResponseWriter, r *http.Request) {
	h.goTo(w, r, storefront.ViewProduct)
}

func (h *handlers) order(w http.ResponseWriter, r *http.Request) {
	h.goTo(w, r, storefront.ViewOrder)
}

func (h *handlers) goTo(w http.ResponseWriter, r *http.Request, v storefront.View) {
	snap, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		return st.GoTo(v)
	})
	if ok {
		h.renderSnapshot(w, r, snap, templates.EmptyForm(), http.StatusOK)
	}
}

// selectProduct opens a product. Unknown ids leave the session untouched and
// send the client back to the view it was on.
func (h *handlers) selectProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	known := h.catalog.Contains(id)
	snap, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		return st.SelectProduct(id)
	})
	if !ok {
		return
	}
	if !known {
		observability.FromContext(r.Context()).Debug("unknown product requested", zap.String("product_id", id))
		http.Redirect(w, r, nav.PathFor(snap.View), http.StatusSeeOther)
		return
	}
	h.renderSnapshot(w, r, snap, templates.EmptyForm(), http.StatusOK)
}

// addItem books the submitted customization against the selected product
// and redirects to the order page. Invalid input re-renders the form with 422.
func (h *handlers) addItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	rawQty := strings.TrimSpace(r.PostFormValue("quantity"))
	cz := cart.Customization{
		ColorTheme:  r.PostFormValue("colorTheme"),
		LegendText:  r.PostFormValue("legendText"),
		ArtisanIcon: r.PostFormValue("artisanIcon"),
		Quantity:    cart.ParseQuantity(rawQty),
	}

	var submitErr error
	snap, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		snap, err := st.SubmitCustomization(cz)
		if err != nil {
			submitErr = err
			return st.GoTo(storefront.ViewProduct)
		}
		return snap
	})
	if !ok {
		return
	}
	if submitErr != nil {
		form := templates.FormFromCustomization(cz.Normalize(), rawQty, submitErr)
		h.renderSnapshot(w, r, snap, form, http.StatusUnprocessableEntity)
		return
	}
	custommw.Redirect(w, r, nav.PathFor(storefront.ViewOrder))
}

// summary serves the plain-text booking transcript.
func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		return st.Snapshot()
	})
	if !ok {
		return
	}
	s := order.Format(snap.Items)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(s.Lines) > 0 {
		fmt.Fprintf(w, "%s\n\n", s.Text())
	}
	fmt.Fprintf(w, "Total: %s\n", format.Price(s.Subtotal))
}

// sendOrder hands the booking draft to the customer's mail client by
// redirecting to its mailto: URI. An empty cart goes back to the order page.
func (h *handlers) sendOrder(w http.ResponseWriter, r *http.Request) {
	var (
		req     order.MailRequest
		sendErr error
	)
	if _, ok := h.command(w, r, func(st *storefront.State) storefront.Snapshot {
		req, sendErr = st.SendOrder(st.Composer())
		return st.Snapshot()
	}); !ok {
		return
	}
	if errors.Is(sendErr, storefront.ErrEmptyCart) {
		custommw.Redirect(w, r, nav.PathFor(storefront.ViewOrder))
		return
	}
	if sendErr != nil {
		observability.FromContext(r.Context()).Error("send order failed", zap.Error(sendErr))
		custommw.WriteError(w, r, http.StatusInternalServerError, "unable to prepare order email")
		return
	}
	custommw.Redirect(w, r, req.URI())
}

// command runs fn under the session lock and returns its snapshot.
func (h *handlers) command(w http.ResponseWriter, r *http.Request, fn func(*storefront.State) storefront.Snapshot) (storefront.Snapshot, bool) {
	id := custommw.SessionFromContext(r.Context()).ID
	var snap storefront.Snapshot
	err := h.store.Do(id, func(st *storefront.State) error {
		snap = fn(st)
		return nil
	})
	if err != nil {
		observability.FromContext(r.Context()).Error("storefront command failed", zap.Error(err))
		custommw.WriteError(w, r, http.StatusInternalServerError, "session unavailable")
		return storefront.Snapshot{}, false
	}
	return snap, true
}

func (h *handlers) renderSnapshot(w http.ResponseWriter, r *http.Request, snap storefront.Snapshot, form templates.FormState, status int) {
	ctx := r.Context()
	page, ok := pageForView[snap.View]
	if !ok {
		page = templates.PageHome
	}
	data := templates.NewPageData(h.catalog, snap, custommw.SessionFromContext(ctx).CSRFToken, h.baseURL, h.now())
	data.Form = form

	comp, err := h.renderer.Component(page, data, custommw.IsHTMX(ctx))
	if err != nil {
		observability.FromContext(ctx).Error("template lookup failed", zap.String("page", string(page)), zap.Error(err))
		custommw.WriteError(w, r, http.StatusInternalServerError, "template error")
		return
	}
	h.metrics.PageView(ctx, snap.View)
	templ.Handler(comp, templ.WithStatus(status)).ServeHTTP(w, r)
}

func parseSlide(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
