package transactpay

import (
	"context"
	"fmt"
	"strings"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
)

// CredentialSet is one set of TransactPay API credentials.
type CredentialSet struct {
	PublicKey     string `json:"publicKey"`
	SecretKey     string `json:"secretKey"`
	EncryptionKey string `json:"encryptionKey"`
}

// Complete reports whether all three keys are set.
func (c CredentialSet) Complete() bool {
	return strings.TrimSpace(c.PublicKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.EncryptionKey) != ""
}

// Masked returns the set with every key reduced to its last four characters.
func (c CredentialSet) Masked() CredentialSet {
	return CredentialSet{
		PublicKey:     mask(c.PublicKey),
		SecretKey:     mask(c.SecretKey),
		EncryptionKey: mask(c.EncryptionKey),
	}
}

// Credentials holds both credential sets and the go-live switch.
type Credentials struct {
	GoLive bool
	Live   CredentialSet
	Test   CredentialSet
}

// Active returns the set selected by the go-live switch.
func (c Credentials) Active() CredentialSet {
	return ResolveCredentials(c.GoLive, c.Live, c.Test)
}

// ResolveCredentials selects live when goLive is set, test otherwise.
func ResolveCredentials(goLive bool, live, test CredentialSet) CredentialSet {
	if goLive {
		return live
	}
	return test
}

// LoadCredentials reads both credential sets. An unset go-live switch means live.
func LoadCredentials(ctx context.Context, store confstore.Store) (Credentials, error) {
	goLive, found, err := confstore.GetBool(ctx, store, KeyGoLive)
	if err != nil {
		return Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	if !found {
		goLive = true
	}
	creds := Credentials{GoLive: goLive}
	reads := []struct {
		key  string
		dest *string
	}{
		{KeyPublicKey, &creds.Live.PublicKey},
		{KeySecretKey, &creds.Live.SecretKey},
		{KeyEncryptionKey, &creds.Live.EncryptionKey},
		{KeyTestPublicKey, &creds.Test.PublicKey},
		{KeyTestSecretKey, &creds.Test.SecretKey},
		{KeyTestEncryptionKey, &creds.Test.EncryptionKey},
	}
	for _, r := range reads {
		v, _, err := store.Get(ctx, r.key)
		if err != nil {
			return Credentials{}, fmt.Errorf("load credentials: %w", err)
		}
		*r.dest = v
	}
	return creds, nil
}

// MailVars are the template variables the module contributes to order e-mails.
func MailVars(active CredentialSet) map[string]string {
	return map[string]string{
		"{secret_key}":     active.SecretKey,
		"{public_key}":     active.PublicKey,
		"{encryption_key}": active.EncryptionKey,
	}
}

func mask(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	r := []rune(v)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
