package response

import (
	"errors"
	"net/http"

	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
)

// HandleError maps domain errors to HTTP responses. Business rejections
// never reach here; the webhook handler turns them into 200 envelopes
// so the provider stops redelivering.
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inbound.ErrMalformedPayload):
		BadRequest(w, "Malformed webhook payload", nil)
	case errors.Is(err, company.ErrUnknownCode):
		NotFound(w, "Unknown code")
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
