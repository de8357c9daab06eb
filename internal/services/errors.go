package services

import "errors"

// Sentinels for the order/payment lifecycle. Endpoints map these to HTTP
// status codes with errors.Is; everything else is treated as internal.
var (
	ErrPackageNotFound    = errors.New("package not found")
	ErrPackageInactive    = errors.New("this package is no longer available")
	ErrOrderNotFound      = errors.New("order not found")
	ErrPaymentNotFound    = errors.New("payment record not found")
	ErrAlreadyCaptured    = errors.New("payment already captured")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrCaptureFailed      = errors.New("payment capture failed")
)
