package delivery

import (
	"strings"

	"courier-dispatch/internal/pkg/errs"
	"courier-dispatch/internal/pkg/guard"
)

var ErrRecipientIsNotConstructed = errs.NewValueIsRequiredError("recipient must be created via NewRecipient")

// Recipient is the person receiving the item. Phone is optional.
type Recipient struct {
	name  string
	phone string
	guard guard.ConstructorGuard
}

func NewRecipient(name, phone string) (Recipient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Recipient{}, errs.NewValueIsRequiredError("recipient name")
	}
	return Recipient{
		name:  name,
		phone: strings.TrimSpace(phone),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (r Recipient) Validate() error {
	return r.guard.Validate(ErrRecipientIsNotConstructed)
}

func (r Recipient) Name() string {
	return r.name
}

func (r Recipient) Phone() string {
	return r.phone
}
