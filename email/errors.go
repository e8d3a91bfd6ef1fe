package email

import (
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/types"
)

const (
	// ErrDelivery matches every *DeliveryError.
	ErrDelivery = types.SentinelError("email delivery failed")

	// ErrDeliveryTimeout matches a *DeliveryError caused by the provider not
	// completing the exchange within the Client's timeout.
	ErrDeliveryTimeout = types.SentinelError("email delivery timed out")
)

// DeliveryError wraps the transport failure behind a failed SendEmail call.
//
// Error redacts Recipient, since the message usually ends up in a log.
type DeliveryError struct {
	Recipient string
	Timeout   bool
	Err       error
}

func (e *DeliveryError) Error() string {
	prefix := ErrDelivery
	if e.Timeout {
		prefix = ErrDeliveryTimeout
	}
	return string(prefix) + ": " + logging.RedactEmail(e.Recipient) + ": " +
		e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery || (e.Timeout && target == ErrDeliveryTimeout)
}
