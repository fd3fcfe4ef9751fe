package transactpay

import (
	"context"
	"fmt"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
)

// BankWireSettings are the bank-wire details shown to customers.
type BankWireSettings struct {
	Owner   string
	Details string
	Address string
	// ReservationDays is nil when never configured.
	ReservationDays      *int
	CustomText           map[int64]string
	DisplayPaymentInvite bool
}

// LoadSettings reads the bank-wire settings, with custom text for the given languages.
func LoadSettings(ctx context.Context, store confstore.Store, languageIDs ...int64) (BankWireSettings, error) {
	var s BankWireSettings
	var err error
	if s.Owner, _, err = store.Get(ctx, KeyBankWireOwner); err != nil {
		return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if s.Details, _, err = store.Get(ctx, KeyBankWireDetails); err != nil {
		return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if s.Address, _, err = store.Get(ctx, KeyBankWireAddress); err != nil {
		return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
	}
	days, found, err := confstore.GetInt(ctx, store, KeyBankWireReservationDays)
	if err != nil {
		return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if found {
		s.ReservationDays = &days
	}
	if s.DisplayPaymentInvite, _, err = confstore.GetBool(ctx, store, FlagDisplayPaymentInvite); err != nil {
		return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
	}
	s.CustomText = make(map[int64]string, len(languageIDs))
	for _, id := range languageIDs {
		text, found, err := store.GetLang(ctx, KeyBankWireCustomText, id)
		if err != nil {
			return BankWireSettings{}, fmt.Errorf("load settings: %w", err)
		}
		if found {
			s.CustomText[id] = text
		}
	}
	return s, nil
}
