package delivery

import (
	"fmt"
	"strings"

	"courier-dispatch/internal/pkg/errs"
)

// PaymentMethod is how the courier collects payment on delivery.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "PIX"
	PaymentCash PaymentMethod = "CASH"
)

// ParsePaymentMethod accepts the wire name in any letter case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentPix, PaymentCash:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Payer is the party that pays for the delivery.
type Payer string

const (
	PayerSender    Payer = "SENDER"
	PayerRecipient Payer = "RECIPIENT"
)

// ParsePayer accepts the wire name in any letter case.
func ParsePayer(s string) (Payer, error) {
	p := Payer(strings.ToUpper(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Payer) Validate() error {
	switch p {
	case PayerSender, PayerRecipient:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payer", fmt.Errorf("%q is not supported", string(p)))
	}
}

func (p Payer) String() string {
	return string(p)
}
