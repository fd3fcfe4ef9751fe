package transactpay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidParams marks hook parameters rejected at the boundary.
var ErrInvalidParams = errors.New("transactpay: invalid hook parameters")

// CartContext is the cart a payment option is requested for.
type CartContext struct {
	CurrencyID int64           `json:"currencyId"`
	Total      decimal.Decimal `json:"total"`
}

// Validate checks the fields the module relies on.
func (c CartContext) Validate() error {
	if c.CurrencyID <= 0 {
		return fmt.Errorf("%w: cart currencyId is required", ErrInvalidParams)
	}
	if c.Total.IsNegative() {
		return fmt.Errorf("%w: cart total must not be negative", ErrInvalidParams)
	}
	return nil
}

// OrderContext is the order shown on the payment return page.
type OrderContext struct {
	Reference  string `json:"reference"`
	CurrencyID int64  `json:"currencyId"`
	// OrdersTotal is the total of every order created from the cart.
	OrdersTotal decimal.Decimal `json:"ordersTotal"`
	// TotalPaid is what has already been received.
	TotalPaid decimal.Decimal `json:"totalPaid"`
}

// Validate checks the fields the module relies on.
func (o OrderContext) Validate() error {
	if strings.TrimSpace(o.Reference) == "" {
		return fmt.Errorf("%w: order reference is required", ErrInvalidParams)
	}
	if o.CurrencyID <= 0 {
		return fmt.Errorf("%w: order currencyId is required", ErrInvalidParams)
	}
	return nil
}

// AmountDue is the amount still to be paid.
func (o OrderContext) AmountDue() decimal.Decimal {
	return o.OrdersTotal.Sub(o.TotalPaid)
}

// OptionsParams are the paymentOptions hook parameters.
type OptionsParams struct {
	Cart       CartContext `json:"cart"`
	LanguageID int64       `json:"languageId"`
}

// ReturnParams are the displayPaymentReturn hook parameters.
type ReturnParams struct {
	Order      OrderContext `json:"order"`
	LanguageID int64        `json:"languageId"`
}

// FormatPrice renders an amount with two decimals followed by the currency ISO code.
func FormatPrice(amount decimal.Decimal, isoCode string) string {
	formatted := amount.StringFixed(2)
	if iso := strings.TrimSpace(isoCode); iso != "" {
		return formatted + " " + iso
	}
	return formatted
}

// TaxIncluded labels a formatted price as tax inclusive.
func TaxIncluded(price string) string {
	return fmt.Sprintf("%s (tax incl.)", price)
}
