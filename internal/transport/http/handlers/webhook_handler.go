package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/umelife/marketplace/internal/service"
)

// Stripe recommends capping webhook bodies at 64KB.
const maxWebhookBody = 65536

// WebhookHandler receives Stripe events. It verifies the signature before
// touching the payload and always acknowledges events it does not care
// about, otherwise Stripe retries them forever.
type WebhookHandler struct {
	orderService  *service.OrderService
	signingSecret string
}

func NewWebhookHandler(orderService *service.OrderService, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		orderService:  orderService,
		signingSecret: signingSecret,
	}
}

func (h *WebhookHandler) HandleStripe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Could not read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.signingSecret)
	if err != nil {
		log.Printf("stripe webhook: signature verification failed: %v", err)
		writeError(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = h.handleCheckoutCompleted(r, event)
	case "payment_intent.succeeded":
		err = h.handlePaymentIntentSucceeded(r, event)
	case "charge.refunded":
		err = h.handleChargeRefunded(r, event)
	default:
		// Acknowledge unhandled event types.
	}

	if err != nil {
		log.Printf("stripe webhook: handling %s: %v", event.Type, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Webhook processing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *WebhookHandler) handleCheckoutCompleted(r *http.Request, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return err
	}

	input := service.CheckoutCompletedInput{
		SessionID:   session.ID,
		AmountCents: session.AmountTotal,
		Currency:    string(session.Currency),
	}
	if session.PaymentIntent != nil {
		input.PaymentIntentID = session.PaymentIntent.ID
	}
	if len(session.PaymentMethodTypes) > 0 {
		input.PaymentMethod = session.PaymentMethodTypes[0]
	}
	if session.CustomerDetails != nil {
		input.BuyerEmail = session.CustomerDetails.Email
		input.BuyerName = session.CustomerDetails.Name
	}

	// Checkout sessions created by the frontend carry identifying metadata
	// so the order can be reconstructed if the pending row is missing.
	if raw, ok := session.Metadata["buyer_id"]; ok {
		input.BuyerID, _ = uuid.Parse(raw)
	}
	if raw, ok := session.Metadata["seller_id"]; ok {
		input.SellerID, _ = uuid.Parse(raw)
	}
	if raw, ok := session.Metadata["listing_id"]; ok {
		input.ListingID, _ = uuid.Parse(raw)
	}
	if raw, ok := session.Metadata["platform_fee_cents"]; ok {
		input.PlatformFeeCents, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := session.Metadata["seller_amount_cents"]; ok {
		input.SellerAmountCents, _ = strconv.ParseInt(raw, 10, 64)
	}

	_, err := h.orderService.HandleCheckoutCompleted(r.Context(), input)
	return err
}

func (h *WebhookHandler) handlePaymentIntentSucceeded(r *http.Request, event stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return err
	}

	chargeID := ""
	if intent.LatestCharge != nil {
		chargeID = intent.LatestCharge.ID
	}

	return h.orderService.HandlePaymentIntentSucceeded(r.Context(), intent.ID, chargeID)
}

func (h *WebhookHandler) handleChargeRefunded(r *http.Request, event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return err
	}
	if charge.PaymentIntent == nil {
		return nil
	}

	err := h.orderService.HandleChargeRefunded(r.Context(), charge.PaymentIntent.ID)
	if errors.Is(err, service.ErrOrderNotFound) {
		// Refund for an order we never tracked; acknowledge it.
		log.Printf("stripe webhook: refund for unknown payment intent %s", charge.PaymentIntent.ID)
		return nil
	}
	return err
}
