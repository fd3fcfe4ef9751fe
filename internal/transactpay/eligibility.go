package transactpay

import "slices"

// IsEligible reports whether the cart currency is one the module accepts.
func IsEligible(cartCurrencyID int64, supported []int64) bool {
	return slices.Contains(supported, cartCurrencyID)
}
