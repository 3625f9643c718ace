package purchase

import "errors"

var (
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrMissingFields     = errors.New("order id, payment id and signature are required")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrGatewayOrder      = errors.New("gateway order creation failed")
	ErrAlreadyCompleted  = errors.New("purchase already completed")
)
