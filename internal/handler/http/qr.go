package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hadirly/attendance-backend-go/internal/domain/company"
	"github.com/hadirly/attendance-backend-go/internal/handler/http/response"
	"github.com/hadirly/attendance-backend-go/internal/pkg/validator"
)

// QRHandler serves the public short-code lookup printed on office QR
// posters. Scanning resolves to a chat deep link with the check-in
// keyword prefilled.
type QRHandler struct {
	companyRepo  company.CompanyRepository
	deepLinkBase string
}

func NewQRHandler(companyRepo company.CompanyRepository, deepLinkBase string) *QRHandler {
	if deepLinkBase == "" {
		deepLinkBase = "https://wa.me"
	}
	return &QRHandler{
		companyRepo:  companyRepo,
		deepLinkBase: deepLinkBase,
	}
}

// Resolve handles GET /q/{code}.
func (h *QRHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !validator.IsValidShortCode(code) {
		// Malformed codes never hit the registry.
		response.NotFound(w, "Unknown code")
		return
	}

	device, err := h.companyRepo.GetDeviceByShortCode(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	comp, err := h.companyRepo.GetByID(r.Context(), device.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	deepLink := fmt.Sprintf("%s/%s?text=%s",
		h.deepLinkBase, device.Phone, url.QueryEscape(comp.CheckInKeyword))
	http.Redirect(w, r, deepLink, http.StatusFound)
}
