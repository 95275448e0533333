package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/arvelin/storefront/internal/service"
	"github.com/arvelin/storefront/pkg/httputil"
)

// SignatureHeader carries the provider's signature over the raw body.
const SignatureHeader = "Stripe-Signature"

// maxWebhookBody bounds webhook payloads. Providers send small JSON events;
// anything larger is hostile.
const maxWebhookBody = 1 << 20

// WebhookHandler receives payment provider webhook deliveries.
type WebhookHandler struct {
	service *service.WebhookService
	logger  *slog.Logger
}

// NewWebhookHandler creates a new webhook HTTP handler.
func NewWebhookHandler(svc *service.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{service: svc, logger: logger}
}

// HandlePaymentEvent handles POST /api/v1/webhooks/payment
//
// The body is read raw and passed to verification unparsed. Decoding it
// first would break signature verification, which runs over exact bytes.
func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "unable to read request body"},
		})
		return
	}

	if err := h.service.Reconcile(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "received"}})
}
