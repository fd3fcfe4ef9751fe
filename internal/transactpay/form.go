package transactpay

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/adminform"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
)

// SubmitAction is the form field that marks a settings submission.
const SubmitAction = "btnSubmit"

// Submission is a parsed admin form post.
type Submission struct {
	Input RawFormInput
	// Values are the raw posted fields, echoed back into the form.
	Values url.Values
}

// ParseSubmission extracts a submission from a posted form. It returns nil when the
// post does not carry the submit action.
func ParseSubmission(form url.Values) *Submission {
	if _, ok := form[SubmitAction]; !ok {
		return nil
	}
	in := RawFormInput{
		Details:              form.Get(KeyBankWireDetails),
		Owner:                form.Get(KeyBankWireOwner),
		Address:              form.Get(KeyBankWireAddress),
		ReservationDays:      form.Get(KeyBankWireReservationDays),
		CustomText:           map[int64]string{},
		DisplayPaymentInvite: confstore.ParseBool(form.Get(FlagDisplayPaymentInvite)),
		Credentials: CredentialInput{
			Live: CredentialSet{
				PublicKey:     strings.TrimSpace(form.Get(KeyPublicKey)),
				SecretKey:     strings.TrimSpace(form.Get(KeySecretKey)),
				EncryptionKey: strings.TrimSpace(form.Get(KeyEncryptionKey)),
			},
			Test: CredentialSet{
				PublicKey:     strings.TrimSpace(form.Get(KeyTestPublicKey)),
				SecretKey:     strings.TrimSpace(form.Get(KeyTestSecretKey)),
				EncryptionKey: strings.TrimSpace(form.Get(KeyTestEncryptionKey)),
			},
		},
	}
	if _, ok := form[KeyGoLive]; ok {
		goLive := confstore.ParseBool(form.Get(KeyGoLive))
		in.Credentials.GoLive = &goLive
	}
	prefix := KeyBankWireCustomText + "_"
	for name, vals := range form {
		suffix, ok := strings.CutPrefix(name, prefix)
		if !ok || len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		in.CustomText[id] = vals[0]
	}
	return &Submission{Input: in, Values: form}
}

func accountForm() adminform.Form {
	return adminform.Form{
		Legend: "Account details",
		Icon:   "icon-envelope",
		Fields: []adminform.Field{
			{Name: KeyBankWireOwner, Type: adminform.Text, Label: "Account owner", Required: true},
			{
				Name:     KeyBankWireDetails,
				Type:     adminform.Textarea,
				Label:    "Account details",
				Desc:     "Such as bank branch, IBAN number, BIC, etc.",
				Required: true,
			},
			{Name: KeyBankWireAddress, Type: adminform.Textarea, Label: "Bank address", Required: true},
		},
		Submit: "Save",
	}
}

func customizationForm() adminform.Form {
	return adminform.Form{
		Legend: "Customization",
		Icon:   "icon-cogs",
		Fields: []adminform.Field{
			{
				Name:  KeyBankWireReservationDays,
				Type:  adminform.Text,
				Label: "Reservation period",
				Desc:  "Number of days the items remain reserved",
			},
			{
				Name:  KeyBankWireCustomText,
				Type:  adminform.Textarea,
				Label: "Information to the customer",
				Desc:  "Information on the bank transfer (processing time, starting of the shipping...)",
				Lang:  true,
			},
			{
				Name:  FlagDisplayPaymentInvite,
				Type:  adminform.Switch,
				Label: "Display the invitation to pay in the order confirmation page",
				Hint: "Your country's legislation may require you to send the invitation to pay by email only. " +
					"Disabling the option will hide the invitation on the confirmation page.",
			},
		},
		Submit: "Save",
	}
}

func credentialsForm() adminform.Form {
	keep := "Leave empty to keep the current key."
	return adminform.Form{
		Legend: "TransactPay API credentials",
		Icon:   "icon-key",
		Fields: []adminform.Field{
			{Name: KeyGoLive, Type: adminform.Switch, Label: "Go live", Hint: "When disabled the test keys are used."},
			{Name: KeyPublicKey, Type: adminform.Password, Label: "Public key", Desc: keep},
			{Name: KeySecretKey, Type: adminform.Password, Label: "Secret key", Desc: keep},
			{Name: KeyEncryptionKey, Type: adminform.Password, Label: "Encryption key", Desc: keep},
			{Name: KeyTestPublicKey, Type: adminform.Password, Label: "Test public key", Desc: keep},
			{Name: KeyTestSecretKey, Type: adminform.Password, Label: "Test secret key", Desc: keep},
			{Name: KeyTestEncryptionKey, Type: adminform.Password, Label: "Test encryption key", Desc: keep},
		},
		Submit: "Save",
	}
}

// Forms returns the configuration forms in display order.
func Forms() []adminform.Form {
	return []adminform.Form{accountForm(), customizationForm(), credentialsForm()}
}

// formValues fills the form with stored values, overridden by anything submitted.
func formValues(ctx context.Context, store confstore.Store, languages []host.Language, sub *Submission) (adminform.Values, error) {
	values := adminform.NewValues()
	var posted url.Values
	if sub != nil {
		posted = sub.Values
	}
	pick := func(name, stored string) string {
		if vals, ok := posted[name]; ok && len(vals) > 0 {
			return vals[0]
		}
		return stored
	}

	for _, key := range []string{KeyBankWireDetails, KeyBankWireOwner, KeyBankWireAddress, KeyBankWireReservationDays, FlagDisplayPaymentInvite} {
		stored, _, err := store.Get(ctx, key)
		if err != nil {
			return adminform.Values{}, fmt.Errorf("form values: %w", err)
		}
		values.Plain[key] = pick(key, stored)
	}

	customText := make(map[int64]string, len(languages))
	for _, lang := range languages {
		stored, _, err := store.GetLang(ctx, KeyBankWireCustomText, lang.ID)
		if err != nil {
			return adminform.Values{}, fmt.Errorf("form values: %w", err)
		}
		customText[lang.ID] = pick(KeyBankWireCustomText+"_"+strconv.FormatInt(lang.ID, 10), stored)
	}
	values.Lang[KeyBankWireCustomText] = customText

	creds, err := LoadCredentials(ctx, store)
	if err != nil {
		return adminform.Values{}, err
	}
	goLive := "0"
	if creds.GoLive {
		goLive = "1"
	}
	values.Plain[KeyGoLive] = pick(KeyGoLive, goLive)
	live, test := creds.Live.Masked(), creds.Test.Masked()
	values.Plain[KeyPublicKey] = live.PublicKey
	values.Plain[KeySecretKey] = live.SecretKey
	values.Plain[KeyEncryptionKey] = live.EncryptionKey
	values.Plain[KeyTestPublicKey] = test.PublicKey
	values.Plain[KeyTestSecretKey] = test.SecretKey
	values.Plain[KeyTestEncryptionKey] = test.EncryptionKey
	return values, nil
}
