package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/internal/middleware"
	"github.com/Dimuthu1234/soundcloud-boost/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// webhookVerifier is satisfied by *paypal.Client.
type webhookVerifier interface {
	WebhookConfigured() bool
	VerifyWebhookSignature(ctx context.Context, headers http.Header, rawBody []byte) (bool, error)
}

// registerWebhookRoutes mounts the PayPal webhook endpoint.
//
// PayPal retries indefinitely on non-2xx, so this endpoint acknowledges with
// 200 no matter what happened internally; redelivery of an already-processed
// event is kept cheap by the capture idempotency guard.
func registerWebhookRoutes(g *echo.Group, ps *services.PaymentService, verifier webhookVerifier, log *zap.Logger) {
	ack := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	g.POST("/webhooks/paypal", func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			log.Error("webhook: failed to read body", zap.Error(err))
			return ack(c)
		}

		if verifier.WebhookConfigured() {
			ok, err := verifier.VerifyWebhookSignature(c.Request().Context(), c.Request().Header, body)
			if err != nil {
				log.Error("webhook: signature verification failed", zap.Error(err))
				return ack(c)
			}
			if !ok {
				log.Warn("webhook: rejected event with invalid signature")
				return ack(c)
			}
		} else {
			log.Warn("webhook: PAYPAL_WEBHOOK_ID not set, skipping signature verification")
		}

		var event paypal.WebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Error("webhook: invalid payload", zap.Error(err))
			return ack(c)
		}

		log.Info("paypal webhook event",
			zap.String("event_type", event.EventType),
			zap.String("resource_id", event.Resource.ID))

		switch event.EventType {
		case paypal.EventCaptureCompleted:
			middleware.RecordCapture("completed")
		case paypal.EventCaptureDenied:
			middleware.RecordCapture("failed")
		case paypal.EventCaptureRefunded:
			middleware.RecordCapture("refunded")
		}

		if err := ps.HandleWebhookEvent(c.Request().Context(), event); err != nil {
			log.Error("webhook: processing failed",
				zap.String("event_type", event.EventType), zap.Error(err))
		}

		return ack(c)
	})
}
