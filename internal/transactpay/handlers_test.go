package transactpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*Handler, fixture) {
	t.Helper()
	f := newFixture(t)
	return &Handler{Module: f.mod, Logger: zerolog.Nop()}, f
}

func TestHandlerPaymentOptions(t *testing.T) {
	h, f := newHandler(t)
	f.install(t)

	rr := httptest.NewRecorder()
	h.PaymentOptions(rr, httptest.NewRequest(http.MethodPost, "/api/v1/hooks/payment-options",
		strings.NewReader(`{"cart":{"currencyId":1,"total":"19.99"},"languageId":1}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Options []PaymentOption `json:"options"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Options, 1)
	require.Contains(t, body.Options[0].AdditionalInformation, "19.99 EUR (tax incl.)")

	rr = httptest.NewRecorder()
	h.PaymentOptions(rr, httptest.NewRequest(http.MethodPost, "/api/v1/hooks/payment-options",
		strings.NewReader(`{"cart":{"currencyId":3,"total":19.99},"languageId":1}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"options":[]}`, rr.Body.String())
}

func TestHandlerPaymentOptionsBadRequests(t *testing.T) {
	h, f := newHandler(t)
	f.install(t)

	rr := httptest.NewRecorder()
	h.PaymentOptions(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.PaymentOptions(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"cart":{"total":1}}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "INVALID_PARAMS")
}

func TestHandlerPaymentReturn(t *testing.T) {
	h, f := newHandler(t)
	body := `{"order":{"reference":"XKBKNABJK","currencyId":2,"ordersTotal":"30","totalPaid":"0"},"languageId":1}`

	rr := httptest.NewRecorder()
	h.PaymentReturn(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusNoContent, rr.Code)

	f.install(t)
	rr = httptest.NewRecorder()
	h.PaymentReturn(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rr.Body.String(), "30.00 USD")
}

func TestHandlerPaymentReturnUnknownCurrency(t *testing.T) {
	h, f := newHandler(t)
	f.install(t)
	body := `{"order":{"reference":"XKBKNABJK","currencyId":42,"ordersTotal":"30","totalPaid":"0"},"languageId":1}`

	rr := httptest.NewRecorder()
	h.PaymentReturn(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHandlerConfigure(t *testing.T) {
	h, f := newHandler(t)
	f.install(t)

	rr := httptest.NewRecorder()
	h.Configure(rr, httptest.NewRequest(http.MethodGet, "/configure", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `name="btnSubmit"`)

	form := url.Values{SubmitAction: {"1"}, KeyBankWireOwner: {"Jane"}}
	req := httptest.NewRequest(http.MethodPost, "/configure", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.Configure(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "Account details are required.")

	form = url.Values{
		SubmitAction:       {"1"},
		KeyBankWireOwner:   {"Jane"},
		KeyBankWireDetails: {"IBAN"},
		KeyBankWireAddress: {"Paris"},
	}
	req = httptest.NewRequest(http.MethodPost, "/configure", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.Configure(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Settings updated")
}

func TestHandlerLifecycleAndStatus(t *testing.T) {
	h, f := newHandler(t)

	rr := httptest.NewRecorder()
	h.Install(rr, httptest.NewRequest(http.MethodPost, "/install", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, f.store.Set(context.Background(), KeyPublicKey, "pk_live_abcdef"))
	rr = httptest.NewRecorder()
	h.Status(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var st statusResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	require.True(t, st.Active)
	require.False(t, st.Ready)
	require.True(t, st.GoLive)
	require.Equal(t, "**********cdef", st.Credentials.PublicKey)
	require.Equal(t, []string{HookDisplayPaymentReturn, HookPaymentOptions}, st.Hooks)
	require.Len(t, st.Currencies, 2)

	rr = httptest.NewRecorder()
	h.Uninstall(rr, httptest.NewRequest(http.MethodPost, "/uninstall", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Zero(t, f.store.Keys())
}

func TestParseSubmission(t *testing.T) {
	require.Nil(t, ParseSubmission(url.Values{KeyBankWireOwner: {"Jane"}}))

	sub := ParseSubmission(url.Values{
		SubmitAction:                   {""},
		KeyBankWireCustomText + "_1":   {"one"},
		KeyBankWireCustomText + "_abc": {"ignored"},
		KeyBankWireCustomText + "_0":   {"ignored"},
		FlagDisplayPaymentInvite:       {"1"},
		KeySecretKey:                   {"  sk_live  "},
	})
	require.NotNil(t, sub)
	require.Equal(t, map[int64]string{1: "one"}, sub.Input.CustomText)
	require.True(t, sub.Input.DisplayPaymentInvite)
	require.Nil(t, sub.Input.Credentials.GoLive)
	require.Equal(t, "sk_live", sub.Input.Credentials.Live.SecretKey)
}
