package response

import (
	"net/http"

	appctx "useraccounts/internal/pkg/context"
)

// RequestIDFromContext extracts the request_id set by the RequestID middleware.
func RequestIDFromContext(r *http.Request) string {
	return appctx.GetRequestID(r.Context())
}
