package middleware

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader echoes chi's request id so a shopper can quote it when
// mailing the shop about a failed page.
const RequestIDHeader = "X-Request-Id"

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// WriteError answers a failed storefront command. Browsers get plain text.
// htmx requests get a JSON body and HX-Reswap: none, so the current page
// stays on screen instead of being replaced by the error payload.
func WriteError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	reqID := chimw.GetReqID(r.Context())
	if reqID != "" {
		w.Header().Set(RequestIDHeader, reqID)
	}
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, RequestID: reqID})
		return
	}
	http.Error(w, msg, code)
}
