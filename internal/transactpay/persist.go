package transactpay

import (
	"context"
	"fmt"
	"strconv"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/common"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
)

// Persister writes validated settings to the configuration store.
type Persister struct {
	Store     confstore.Store
	Languages host.LanguageRegistry
}

// Persist writes the bank-wire settings, the invite flag and any submitted credentials.
func (p Persister) Persist(ctx context.Context, settings ValidatedSettings) error {
	in := settings.input
	writes := []struct{ key, value string }{
		{KeyBankWireDetails, in.Details},
		{KeyBankWireOwner, in.Owner},
		{KeyBankWireAddress, in.Address},
	}
	for _, w := range writes {
		if err := p.Store.Set(ctx, w.key, w.value); err != nil {
			return fmt.Errorf("persist %s: %w", w.key, err)
		}
	}

	languages, err := p.Languages.Languages(ctx)
	if err != nil {
		return fmt.Errorf("persist: list languages: %w", err)
	}
	customText := make(map[int64]string, len(languages))
	for _, lang := range languages {
		if text, ok := in.CustomText[lang.ID]; ok {
			customText[lang.ID] = text
		}
	}
	if len(customText) > 0 {
		if err := p.Store.SetLang(ctx, KeyBankWireCustomText, customText); err != nil {
			return fmt.Errorf("persist %s: %w", KeyBankWireCustomText, err)
		}
	}

	days := common.AtoiDefault(in.ReservationDays, 0)
	if err := p.Store.Set(ctx, KeyBankWireReservationDays, strconv.Itoa(days)); err != nil {
		return fmt.Errorf("persist %s: %w", KeyBankWireReservationDays, err)
	}
	if err := confstore.SetBool(ctx, p.Store, FlagDisplayPaymentInvite, in.DisplayPaymentInvite); err != nil {
		return fmt.Errorf("persist %s: %w", FlagDisplayPaymentInvite, err)
	}
	return p.persistCredentials(ctx, in.Credentials)
}

func (p Persister) persistCredentials(ctx context.Context, in CredentialInput) error {
	if in.GoLive != nil {
		if err := confstore.SetBool(ctx, p.Store, KeyGoLive, *in.GoLive); err != nil {
			return fmt.Errorf("persist %s: %w", KeyGoLive, err)
		}
	}
	keys := []struct{ key, value string }{
		{KeyPublicKey, in.Live.PublicKey},
		{KeySecretKey, in.Live.SecretKey},
		{KeyEncryptionKey, in.Live.EncryptionKey},
		{KeyTestPublicKey, in.Test.PublicKey},
		{KeyTestSecretKey, in.Test.SecretKey},
		{KeyTestEncryptionKey, in.Test.EncryptionKey},
	}
	for _, k := range keys {
		if k.value == "" {
			continue
		}
		if err := p.Store.Set(ctx, k.key, k.value); err != nil {
			return fmt.Errorf("persist %s: %w", k.key, err)
		}
	}
	return nil
}
