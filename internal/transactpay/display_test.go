package transactpay

import (
	"context"
	"html/template"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
)

func intPtr(v int) *int { return &v }

func TestBuildDisplayInfoDefaults(t *testing.T) {
	info := BuildDisplayInfo(BankWireSettings{}, 1, "10.00 EUR")
	require.Equal(t, template.HTML(Placeholder), info.Owner)
	require.Equal(t, template.HTML(Placeholder), info.Details)
	require.Equal(t, template.HTML(Placeholder), info.Address)
	require.Equal(t, DefaultReservationDays, info.ReservationDays)
	require.Empty(t, info.CustomText)
	require.Equal(t, "10.00 EUR", info.Total)
}

func TestBuildDisplayInfoKeepsZeroReservation(t *testing.T) {
	info := BuildDisplayInfo(BankWireSettings{ReservationDays: intPtr(0)}, 1, "")
	require.Zero(t, info.ReservationDays)

	info = BuildDisplayInfo(BankWireSettings{ReservationDays: intPtr(14)}, 1, "")
	require.Equal(t, 14, info.ReservationDays)
}

func TestBuildDisplayInfoEscapesAndBreaksLines(t *testing.T) {
	info := BuildDisplayInfo(BankWireSettings{
		Owner:      "Jane & Co",
		Details:    "IBAN FR76\nBIC <AGRI>",
		Address:    "1 rue de Paris\r\nParis",
		CustomText: map[int64]string{1: "Ships in 2 days\nThanks", 2: "Expédié"},
	}, 1, "")
	require.Equal(t, template.HTML("Jane &amp; Co"), info.Owner)
	require.Equal(t, template.HTML("IBAN FR76<br />\nBIC &lt;AGRI&gt;"), info.Details)
	require.Equal(t, template.HTML("1 rue de Paris<br />\r\nParis"), info.Address)
	require.Equal(t, template.HTML("Ships in 2 days<br />\nThanks"), info.CustomText)
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "42.50 EUR", FormatPrice(decimal.RequireFromString("42.5"), "EUR"))
	require.Equal(t, "42.50 EUR (tax incl.)", TaxIncluded(FormatPrice(decimal.RequireFromString("42.5"), "EUR")))
	require.Equal(t, "0.00", FormatPrice(decimal.Zero, ""))
}

func TestParamsValidate(t *testing.T) {
	require.ErrorIs(t, CartContext{}.Validate(), ErrInvalidParams)
	require.ErrorIs(t, CartContext{CurrencyID: 1, Total: decimal.NewFromInt(-1)}.Validate(), ErrInvalidParams)
	require.NoError(t, CartContext{CurrencyID: 1, Total: decimal.NewFromInt(10)}.Validate())

	require.ErrorIs(t, OrderContext{CurrencyID: 1}.Validate(), ErrInvalidParams)
	require.ErrorIs(t, OrderContext{Reference: "XKBKNABJK"}.Validate(), ErrInvalidParams)
	order := OrderContext{
		Reference:   "XKBKNABJK",
		CurrencyID:  1,
		OrdersTotal: decimal.RequireFromString("120.00"),
		TotalPaid:   decimal.RequireFromString("20.00"),
	}
	require.NoError(t, order.Validate())
	require.True(t, order.AmountDue().Equal(decimal.NewFromInt(100)))
}

func TestLoadSettings(t *testing.T) {
	ctx := context.Background()
	store := confstore.NewMemory()

	s, err := LoadSettings(ctx, store, 1)
	require.NoError(t, err)
	require.Nil(t, s.ReservationDays)
	require.False(t, s.DisplayPaymentInvite)

	require.NoError(t, store.Set(ctx, KeyBankWireOwner, "Jane"))
	require.NoError(t, store.Set(ctx, KeyBankWireReservationDays, "0"))
	require.NoError(t, store.SetLang(ctx, KeyBankWireCustomText, map[int64]string{1: "hello", 2: "bonjour"}))
	require.NoError(t, confstore.SetBool(ctx, store, FlagDisplayPaymentInvite, true))

	s, err = LoadSettings(ctx, store, 2)
	require.NoError(t, err)
	require.Equal(t, "Jane", s.Owner)
	require.NotNil(t, s.ReservationDays)
	require.Zero(t, *s.ReservationDays)
	require.Equal(t, map[int64]string{2: "bonjour"}, s.CustomText)
	require.True(t, s.DisplayPaymentInvite)
}
