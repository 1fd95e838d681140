package middleware

import (
	"net/http"
	"strings"
)

// HTMX marks requests coming from htmx so handlers can answer with fragments.
// History restore requests need the full page and are treated as plain
// navigations.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := strings.EqualFold(r.Header.Get("HX-Request"), "true") &&
			!strings.EqualFold(r.Header.Get("HX-History-Restore-Request"), "true")
		w.Header().Add("Vary", "HX-Request")
		next.ServeHTTP(w, r.WithContext(WithHTMX(r.Context(), is)))
	})
}

// NoStore keeps per-session pages out of shared caches.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Redirect sends the client to target with 303 See Other. htmx requests get
// an HX-Redirect header instead so the browser performs a full navigation,
// which is needed for non-http schemes such as mailto:.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
