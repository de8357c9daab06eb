package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dimuthu1234/soundcloud-boost/external/paypal"
	"github.com/Dimuthu1234/soundcloud-boost/internal/model"

	"go.uber.org/zap"
)

// PaymentService is the single authority for moving a payment (and its owning
// order) through the capture state machine. Both the browser-redirect capture
// endpoint and the webhook endpoint funnel into it, possibly concurrently for
// the same PayPal order id.
type PaymentService struct {
	Payments PaymentStore
	Orders   OrderStore
	Gateway  PaymentGateway
	Mailer   Mailer
	Log      *zap.Logger
}

func NewPaymentService(
	payments PaymentStore,
	orders OrderStore,
	gateway PaymentGateway,
	mailer Mailer,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		Payments: payments,
		Orders:   orders,
		Gateway:  gateway,
		Mailer:   mailer,
		Log:      log,
	}
}

// CapturePayment is the direct entry point: the buyer's browser returned from
// PayPal and echoed the PayPal order id back to us. Unlike the webhook path,
// an already-captured payment is reported explicitly.
func (s *PaymentService) CapturePayment(ctx context.Context, paypalOrderID string) (*model.Order, *model.Payment, error) {
	payment, err := s.Payments.GetByPayPalOrderID(ctx, paypalOrderID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, ErrPaymentNotFound
	}
	if payment.Status == model.PaymentStatusCompleted {
		return nil, nil, ErrAlreadyCaptured
	}

	result, err := s.Gateway.CaptureOrder(ctx, paypalOrderID)
	if err != nil {
		s.applyCaptureFailure(ctx, paypalOrderID)
		return nil, nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if result.Status != "COMPLETED" {
		s.applyCaptureFailure(ctx, paypalOrderID)
		return nil, nil, fmt.Errorf("%w: gateway status %s", ErrCaptureFailed, result.Status)
	}

	if err := s.applyCaptureSuccess(ctx, paypalOrderID, result.CaptureID, result.PayerID); err != nil {
		return nil, nil, err
	}

	payment, err = s.Payments.GetByPayPalOrderID(ctx, paypalOrderID)
	if err != nil || payment == nil {
		return nil, nil, err
	}
	order, err := s.Orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, nil, err
	}
	return order, payment, nil
}

// applyCaptureSuccess performs the transition to completed exactly once, from
// pending or from failed (a denied capture may be retried and succeed at the
// gateway, and a confirmed success must always be recorded). The store's
// conditional update decides the winner; only the winner dispatches the
// confirmation email. Repeat invocations for the same PayPal
// order id are cheap no-ops.
func (s *PaymentService) applyCaptureSuccess(ctx context.Context, paypalOrderID, captureID, payerID string) error {
	won, err := s.Payments.CompleteCapture(ctx, paypalOrderID, captureID, payerID, time.Now())
	if err != nil {
		return err
	}
	if !won {
		s.Log.Info("capture already applied, skipping",
			zap.String("paypal_order_id", paypalOrderID))
		return nil
	}

	payment, err := s.Payments.GetByPayPalOrderID(ctx, paypalOrderID)
	if err != nil || payment == nil {
		s.Log.Error("captured payment vanished", zap.String("paypal_order_id", paypalOrderID), zap.Error(err))
		return nil
	}

	order, err := s.Orders.GetByID(ctx, payment.OrderID)
	if err != nil || order == nil || order.Package == nil {
		s.Log.Error("order lookup failed after capture",
			zap.String("order_id", payment.OrderID), zap.Error(err))
		return nil
	}

	if err := s.Mailer.SendOrderConfirmation(ctx, order, order.Package); err != nil {
		// The payment is captured; email is best effort.
		s.Log.Error("failed to send order confirmation email",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
	return nil
}

func (s *PaymentService) applyCaptureFailure(ctx context.Context, paypalOrderID string) {
	won, err := s.Payments.FailCapture(ctx, paypalOrderID)
	if err != nil {
		s.Log.Error("failed to mark payment failed",
			zap.String("paypal_order_id", paypalOrderID), zap.Error(err))
		return
	}
	if won {
		s.Log.Warn("payment capture failed, order reverted to pending",
			zap.String("paypal_order_id", paypalOrderID))
	}
}

// HandleWebhookEvent reconciles an asynchronous gateway notification into the
// same transitions the direct path uses. Delivery is at-least-once and
// unordered; every branch must tolerate duplicates. Errors returned here are
// logged by the endpoint, which acknowledges regardless.
func (s *PaymentService) HandleWebhookEvent(ctx context.Context, event paypal.WebhookEvent) error {
	switch event.EventType {

	case paypal.EventOrderApproved:
		// Approval is not completion; informational only.
		s.Log.Info("paypal order approved",
			zap.String("paypal_order_id", event.Resource.ID))
		return nil

	case paypal.EventCaptureCompleted:
		paypalOrderID := event.Resource.RelatedOrderID()
		if paypalOrderID == "" {
			s.Log.Warn("capture completed event without related order id",
				zap.String("capture_id", event.Resource.ID))
			return nil
		}
		return s.applyCaptureSuccess(ctx, paypalOrderID, event.Resource.ID, "")

	case paypal.EventCaptureDenied:
		payment, err := s.Payments.GetByCaptureID(ctx, event.Resource.ID)
		if err != nil {
			return err
		}
		if payment == nil {
			s.Log.Warn("capture denied for unknown capture id",
				zap.String("capture_id", event.Resource.ID))
			return nil
		}
		_, err = s.Payments.FailCapture(ctx, payment.PayPalOrderID)
		return err

	case paypal.EventCaptureRefunded:
		payment, err := s.Payments.GetByCaptureID(ctx, event.Resource.ID)
		if err != nil {
			return err
		}
		if payment == nil {
			s.Log.Warn("refund for unknown capture id",
				zap.String("capture_id", event.Resource.ID))
			return nil
		}
		won, err := s.Payments.RefundCapture(ctx, payment.PayPalOrderID)
		if err != nil {
			return err
		}
		if won {
			s.Log.Info("payment refunded, order reverted to pending",
				zap.String("order_id", payment.OrderID))
		}
		return nil

	default:
		s.Log.Debug("ignoring webhook event", zap.String("event_type", event.EventType))
		return nil
	}
}
