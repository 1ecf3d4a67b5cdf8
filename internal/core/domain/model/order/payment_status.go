package order

import "strings"

// PaymentStatus is read-only here: the workflow never changes it, exports show it.
type PaymentStatus string

const (
	PaymentCaptured   PaymentStatus = "captured"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentCanceled   PaymentStatus = "canceled"
	PaymentUnknown    PaymentStatus = "unknown"
)

// ParsePaymentStatus maps anything unrecognised to PaymentUnknown.
func ParsePaymentStatus(s string) PaymentStatus {
	switch p := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); p {
	case PaymentCaptured, PaymentAuthorized, PaymentCanceled:
		return p
	default:
		return PaymentUnknown
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}

// Label returns the operator-facing label.
func (p PaymentStatus) Label() string {
	switch p {
	case PaymentCaptured:
		return "Pago OK"
	case PaymentAuthorized:
		return "Pago Autorizado"
	case PaymentCanceled:
		return "Pago Cancelado"
	default:
		return "Error"
	}
}
