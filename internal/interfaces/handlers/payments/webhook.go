package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	billingsvc "keystone-backend/internal/application/billing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// WebhookHandler processes Stripe payment_intent webhooks for online rent payments.
type WebhookHandler struct {
	Billing       *billingsvc.Service
	WebhookSecret string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type paymentIntentObject struct {
	ID             string            `json:"id"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Status         string            `json:"status"`
	Metadata       map[string]string `json:"metadata"`
}

// HandleWebhook POST /api/stripe/webhook — raw body, signature verification, then process.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	// Stripe sends "Stripe-Signature"; Fiber's Get is case-insensitive
	sig := c.Get("Stripe-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Stripe webhook received empty body (ensure no global body parser consumes the webhook body)")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyStripeSignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("Stripe webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if event.Type == "payment_intent.succeeded" {
		var pi paymentIntentObject
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil {
			return c.Status(200).SendString("ok")
		}
		if err := wh.handlePaymentIntentSucceeded(c, pi, event.ID, rawBody); err != nil {
			// Domain errors still return 200 so Stripe does not retry
			log.Warn().Err(err).Str("payment_intent", pi.ID).Msg("Stripe rent payment not recorded")
			return c.Status(200).SendString("ok")
		}
	}

	return c.Status(200).SendString("ok")
}

func (wh *WebhookHandler) handlePaymentIntentSucceeded(c *fiber.Ctx, pi paymentIntentObject, eventID string, rawBody []byte) error {
	leaseIDStr := pi.Metadata["lease_id"]
	if leaseIDStr == "" {
		return nil // not a rent payment intent, skip silently
	}
	leaseID, err := uuid.Parse(leaseIDStr)
	if err != nil {
		return errors.New("invalid lease_id in payment intent metadata")
	}
	if pi.AmountReceived <= 0 {
		return nil
	}

	// amount_received is in cents
	amount := decimal.NewFromInt(pi.AmountReceived).Div(decimal.NewFromInt(100))

	_, created, err := wh.Billing.RecordStripePayment(c.Context(), billingsvc.RecordStripePaymentInput{
		LeaseID:          leaseID,
		Amount:           amount,
		PaymentIntentID:  pi.ID,
		EventID:          eventID,
		RawPaymentIntent: rawBody,
	})
	if err != nil {
		return err
	}
	if !created {
		log.Info().Str("payment_intent", pi.ID).Msg("Stripe webhook replay, payment already recorded")
	}
	return nil
}

// verifyStripeSignature verifies the Stripe-Signature header using the webhook secret.
func verifyStripeSignature(payload []byte, sigHeader, secret string) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}

	var timestamp string
	var signatures []string

	parts := strings.Split(sigHeader, ",")
	for _, part := range parts {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	signedPayload := timestamp + "." + string(payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	expectedSig := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			// Check tolerance (5 minutes)
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := time.Now().Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > 300 {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}

	return errors.New("signature mismatch")
}
