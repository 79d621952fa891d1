package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hadirly/attendance-backend-go/internal/domain/inbound"
	"github.com/hadirly/attendance-backend-go/internal/handler/http/response"
	"github.com/hadirly/attendance-backend-go/internal/service/ingest"
)

// WebhookHandler receives inbound message deliveries from the chat
// provider.
type WebhookHandler struct {
	ingestService *ingest.Service
}

func NewWebhookHandler(ingestService *ingest.Service) *WebhookHandler {
	return &WebhookHandler{ingestService: ingestService}
}

// Inbound handles POST /api/v1/webhooks/inbound. The response status
// drives the provider's retry behavior: 2xx stops redelivery, 5xx asks
// for another attempt. Business rejections are therefore 200s with
// success=false.
func (h *WebhookHandler) Inbound(w http.ResponseWriter, r *http.Request) {
	var payload inbound.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid JSON body", nil)
		return
	}

	outcome, err := h.ingestService.Ingest(r.Context(), payload, time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !outcome.Accepted {
		response.Rejected(w, outcome.Code, outcome.Message)
		return
	}

	response.SuccessWithMessage(w, outcome.Message, map[string]string{
		"code":      outcome.Code,
		"record_id": outcome.RecordID,
	})
}
