package transactpay

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/render"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
)

const (
	euro   int64 = 1
	dollar int64 = 2
	yen    int64 = 3
)

type fixture struct {
	store *confstore.Memory
	host  *host.Memory
	mod   *Module
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := confstore.NewMemory()
	h := host.NewMemory(
		[]host.Language{{ID: 1, ISOCode: "en", Name: "English"}, {ID: 2, ISOCode: "fr", Name: "Français"}},
		[]host.Currency{{ID: euro, ISOCode: "EUR", Name: "Euro"}, {ID: dollar, ISOCode: "USD", Name: "US Dollar"}, {ID: yen, ISOCode: "JPY", Name: "Yen"}},
	)
	h.AssignCurrencies(ModuleName, euro, dollar)
	mod, err := New(Config{
		Store:      store,
		Currencies: h,
		Languages:  h,
		Hooks:      h,
		Modules:    h,
		Renderer:   render.MustNew(),
		Links: Links{
			BaseURL:    "https://shop.example/",
			ContactURL: "https://shop.example/contact-us",
			AdminURL:   "/admin/configure",
		},
		ShopName: "Example Shop",
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return fixture{store: store, host: h, mod: mod}
}

func (f fixture) install(t *testing.T) {
	t.Helper()
	require.NoError(t, f.mod.Install(context.Background()))
}

func (f fixture) configureBankWire(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, KeyBankWireOwner, "Jane Doe"))
	require.NoError(t, f.store.Set(ctx, KeyBankWireDetails, "IBAN FR76\nBIC AGRIFRPP"))
	require.NoError(t, f.store.Set(ctx, KeyBankWireAddress, "1 rue de Paris"))
	require.NoError(t, f.store.Set(ctx, KeyBankWireReservationDays, "5"))
}

func TestNewRequiresPorts(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestInstall(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	ctx := context.Background()

	invite, found, err := confstore.GetBool(ctx, f.store, FlagDisplayPaymentInvite)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, invite)

	active, err := f.host.IsActive(ctx, ModuleName)
	require.NoError(t, err)
	require.True(t, active)

	hooks, err := f.mod.Hooks(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{HookDisplayPaymentReturn, HookPaymentOptions}, hooks)
}

func TestUninstallRemovesEveryKey(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	f.configureBankWire(t)
	ctx := context.Background()
	for _, key := range uninstallKeys {
		require.NoError(t, f.store.Set(ctx, key, "x"))
	}
	require.NoError(t, f.store.SetLang(ctx, KeyBankWireCustomText, map[int64]string{1: "hi"}))

	require.NoError(t, f.mod.Uninstall(ctx))
	require.Zero(t, f.store.Keys())

	active, err := f.host.IsActive(ctx, ModuleName)
	require.NoError(t, err)
	require.False(t, active)
	hooks, err := f.mod.Hooks(ctx)
	require.NoError(t, err)
	require.Empty(t, hooks)
}

func TestUninstallThenInstallResetsInviteFlag(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	ctx := context.Background()
	require.NoError(t, confstore.SetBool(ctx, f.store, FlagDisplayPaymentInvite, false))

	require.NoError(t, f.mod.Uninstall(ctx))
	f.install(t)

	invite, _, err := confstore.GetBool(ctx, f.store, FlagDisplayPaymentInvite)
	require.NoError(t, err)
	require.True(t, invite)
}

type failingStore struct {
	confstore.Store
	failDelete string
}

func (s failingStore) Delete(ctx context.Context, key string) error {
	if key == s.failDelete {
		return errors.New("store unavailable")
	}
	return s.Store.Delete(ctx, key)
}

func TestUninstallFailsOnDeleteError(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	f.mod.store = failingStore{Store: f.store, failDelete: KeyBankWireOwner}

	err := f.mod.Uninstall(context.Background())
	require.ErrorContains(t, err, KeyBankWireOwner)

	active, err := f.host.IsActive(context.Background(), ModuleName)
	require.NoError(t, err)
	require.True(t, active, "module stays installed when a key cannot be removed")
}

func TestPaymentOptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := OptionsParams{Cart: CartContext{CurrencyID: euro, Total: decimal.RequireFromString("99.9")}, LanguageID: 1}

	options, err := f.mod.PaymentOptions(ctx, params)
	require.NoError(t, err)
	require.Empty(t, options, "inactive module offers nothing")

	f.install(t)
	f.configureBankWire(t)

	options, err = f.mod.PaymentOptions(ctx, params)
	require.NoError(t, err)
	require.Len(t, options, 1)
	opt := options[0]
	require.Equal(t, ModuleName, opt.ModuleName)
	require.Equal(t, "Proceed to TransactPay", opt.CallToActionText)
	require.Equal(t, "https://shop.example/module/ps_transactpay/validation", opt.Action)
	require.Contains(t, opt.AdditionalInformation, "99.90 EUR (tax incl.)")
	require.Contains(t, opt.AdditionalInformation, "IBAN FR76<br />\nBIC AGRIFRPP")
	require.Contains(t, opt.AdditionalInformation, "reserved 5 days")

	params.Cart.CurrencyID = yen
	options, err = f.mod.PaymentOptions(ctx, params)
	require.NoError(t, err)
	require.NotNil(t, options)
	require.Empty(t, options, "ineligible currency offers nothing")
}

func TestPaymentOptionsRejectsInvalidCart(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	_, err := f.mod.PaymentOptions(context.Background(), OptionsParams{})
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestPaymentOptionsPlaceholders(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	options, err := f.mod.PaymentOptions(context.Background(), OptionsParams{Cart: CartContext{CurrencyID: dollar, Total: decimal.NewFromInt(5)}, LanguageID: 1})
	require.NoError(t, err)
	require.Len(t, options, 1)
	require.Contains(t, options[0].AdditionalInformation, Placeholder)
	require.Contains(t, options[0].AdditionalInformation, "reserved 7 days")
}

func TestPaymentReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	params := ReturnParams{
		Order: OrderContext{
			Reference:   "XKBKNABJK",
			CurrencyID:  euro,
			OrdersTotal: decimal.RequireFromString("150"),
			TotalPaid:   decimal.RequireFromString("50"),
		},
		LanguageID: 1,
	}

	_, shown, err := f.mod.PaymentReturn(ctx, params)
	require.NoError(t, err)
	require.False(t, shown, "inactive module shows nothing")

	f.install(t)
	f.configureBankWire(t)
	html, shown, err := f.mod.PaymentReturn(ctx, params)
	require.NoError(t, err)
	require.True(t, shown)
	require.Contains(t, html, "Example Shop")
	require.Contains(t, html, "100.00 EUR")
	require.Contains(t, html, "XKBKNABJK")
	require.Contains(t, html, "https://shop.example/contact-us")
	require.Contains(t, html, "Jane Doe")

	require.NoError(t, confstore.SetBool(ctx, f.store, FlagDisplayPaymentInvite, false))
	html, shown, err = f.mod.PaymentReturn(ctx, params)
	require.NoError(t, err)
	require.False(t, shown)
	require.Empty(t, html)
}

func TestStateWarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.mod.State(ctx)
	require.NoError(t, err)
	require.False(t, st.Ready)
	require.Equal(t, []string{WarningCredentials}, st.Warnings)

	f.install(t)
	f.host.AssignCurrencies(ModuleName)
	st, err = f.mod.State(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{WarningCredentials, WarningNoCurrency}, st.Warnings)

	f.host.AssignCurrencies(ModuleName, euro)
	require.NoError(t, f.store.Set(ctx, KeyTestPublicKey, testSet.PublicKey))
	require.NoError(t, f.store.Set(ctx, KeyTestSecretKey, testSet.SecretKey))
	require.NoError(t, f.store.Set(ctx, KeyTestEncryptionKey, testSet.EncryptionKey))
	require.NoError(t, confstore.SetBool(ctx, f.store, KeyGoLive, false))
	st, err = f.mod.State(ctx)
	require.NoError(t, err)
	require.True(t, st.Ready)
	require.Empty(t, st.Warnings)
	require.Equal(t, testSet, st.Credentials)
	require.Equal(t, testSet.SecretKey, st.MailVars["{secret_key}"])
}

func TestAdminPageWithoutSubmission(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	f.configureBankWire(t)

	res, err := f.mod.AdminPage(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, res.Saved)
	require.Empty(t, res.Errors)
	require.True(t, strings.HasPrefix(res.HTML, "<br />"))
	require.Contains(t, res.HTML, WarningCredentials)
	require.Contains(t, res.HTML, `name="BANK_WIRE_OWNER" value="Jane Doe"`)
	require.Contains(t, res.HTML, `name="BANK_WIRE_CUSTOM_TEXT_2"`)
}

func TestAdminPageInvalidSubmissionWritesNothing(t *testing.T) {
	f := newFixture(t)
	sub := ParseSubmission(url.Values{
		SubmitAction:                 {"1"},
		KeyBankWireOwner:             {""},
		KeyBankWireDetails:           {"IBAN"},
		KeyBankWireAddress:           {""},
		KeyBankWireReservationDays:   {"-5"},
		KeyBankWireCustomText + "_1": {"hello"},
		FlagDisplayPaymentInvite:     {"1"},
		KeyPublicKey:                 {"pk_new"},
	})

	res, err := f.mod.AdminPage(context.Background(), sub)
	require.NoError(t, err)
	require.False(t, res.Saved)
	require.Equal(t, []string{CodeOwnerRequired, CodeAddressRequired, CodeReservationPeriodInvalid}, fieldCodes(res.Errors))
	require.Zero(t, f.store.Keys())
	require.Contains(t, res.HTML, "Account owner is required.")
	require.Contains(t, res.HTML, `name="BANK_WIRE_DETAILS">IBAN</textarea>`, "submitted values are echoed back")
}

func TestAdminPageValidSubmissionPersists(t *testing.T) {
	f := newFixture(t)
	f.install(t)
	ctx := context.Background()
	sub := ParseSubmission(url.Values{
		SubmitAction:                 {"1"},
		KeyBankWireOwner:             {"Jane Doe"},
		KeyBankWireDetails:           {"IBAN FR76"},
		KeyBankWireAddress:           {"1 rue de Paris"},
		KeyBankWireReservationDays:   {"12"},
		KeyBankWireCustomText + "_1": {"hello"},
		KeyBankWireCustomText + "_9": {"unknown language"},
		FlagDisplayPaymentInvite:     {"0"},
		KeyGoLive:                    {"0"},
		KeyTestSecretKey:             {"sk_test_new"},
	})

	res, err := f.mod.AdminPage(ctx, sub)
	require.NoError(t, err)
	require.True(t, res.Saved)
	require.Contains(t, res.HTML, "Settings updated")

	owner, _, err := f.store.Get(ctx, KeyBankWireOwner)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", owner)
	days, _, err := confstore.GetInt(ctx, f.store, KeyBankWireReservationDays)
	require.NoError(t, err)
	require.Equal(t, 12, days)
	text, found, err := f.store.GetLang(ctx, KeyBankWireCustomText, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hello", text)
	_, found, err = f.store.GetLang(ctx, KeyBankWireCustomText, 9)
	require.NoError(t, err)
	require.False(t, found)

	invite, _, err := confstore.GetBool(ctx, f.store, FlagDisplayPaymentInvite)
	require.NoError(t, err)
	require.False(t, invite)

	creds, err := LoadCredentials(ctx, f.store)
	require.NoError(t, err)
	require.False(t, creds.GoLive)
	require.Equal(t, "sk_test_new", creds.Test.SecretKey)
	_, found, err = f.store.Get(ctx, KeyPublicKey)
	require.NoError(t, err)
	require.False(t, found, "empty key inputs leave stored keys untouched")
}

func TestInstallIsScopedToShop(t *testing.T) {
	f := newFixture(t)
	shopA := shop.WithShop(context.Background(), "A")
	shopB := shop.WithShop(context.Background(), "B")
	require.NoError(t, f.mod.Install(shopA))
	params := OptionsParams{Cart: CartContext{CurrencyID: euro, Total: decimal.RequireFromString("10")}, LanguageID: 1}

	options, err := f.mod.PaymentOptions(shopB, params)
	require.NoError(t, err)
	require.Empty(t, options, "another shop has not installed the module")

	require.NoError(t, f.mod.Uninstall(shopB))

	active, err := f.host.IsActive(shopA, ModuleName)
	require.NoError(t, err)
	require.True(t, active)
	invite, found, err := confstore.GetBool(shopA, f.store, FlagDisplayPaymentInvite)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, invite)

	options, err = f.mod.PaymentOptions(shopA, params)
	require.NoError(t, err)
	require.Len(t, options, 1)
}
