package transactpay

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/common"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
)

// Handler exposes the module's hook and admin endpoints.
type Handler struct {
	Module *Module
	Logger zerolog.Logger
}

type optionsResp struct {
	Options []PaymentOption `json:"options"`
}

type statusResp struct {
	Module      string          `json:"module"`
	Active      bool            `json:"active"`
	Ready       bool            `json:"ready"`
	GoLive      bool            `json:"goLive"`
	Credentials CredentialSet   `json:"credentials"`
	Currencies  []host.Currency `json:"currencies"`
	Warnings    []string        `json:"warnings"`
	Hooks       []string        `json:"hooks"`
}

// PaymentOptions serves the paymentOptions hook.
func (h *Handler) PaymentOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	var req OptionsParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	options, err := h.Module.PaymentOptions(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, optionsResp{Options: options})
}

// PaymentReturn serves the displayPaymentReturn hook. Nothing to show yields 204.
func (h *Handler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	var req ReturnParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	html, shown, err := h.Module.PaymentReturn(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !shown {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.HTML(w, http.StatusOK, html)
}

// Configure renders the configuration page, processing a posted form first.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	var sub *Submission
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid form", nil)
			return
		}
		sub = ParseSubmission(r.PostForm)
	}
	res, err := h.Module.AdminPage(r.Context(), sub)
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusOK
	if len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	employeeID, _ := common.EmployeeID(r.Context())
	if sub != nil {
		h.Logger.Info().Str("employee_id", employeeID).Bool("saved", res.Saved).Int("errors", len(res.Errors)).Msg("settings submitted")
	}
	common.HTML(w, status, res.HTML)
}

// Install installs the module for the current shop.
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	if err := h.Module.Install(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INSTALL_FAILED", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"module": h.Module.Name(), "installed": true})
}

// Uninstall removes the module and its configuration for the current shop.
func (h *Handler) Uninstall(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	if err := h.Module.Uninstall(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "UNINSTALL_FAILED", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"module": h.Module.Name(), "installed": false})
}

// Status reports the configuration state with masked keys.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Module == nil {
		common.JSONError(w, http.StatusInternalServerError, "MODULE_NOT_CONFIGURED", "payment module unavailable", nil)
		return
	}
	st, err := h.Module.State(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	hooks, err := h.Module.Hooks(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := statusResp{
		Module:      h.Module.Name(),
		Active:      st.Active,
		Ready:       st.Ready,
		GoLive:      st.GoLive,
		Credentials: st.Credentials.Masked(),
		Currencies:  st.Currencies,
		Warnings:    st.Warnings,
		Hooks:       hooks,
	}
	if resp.Currencies == nil {
		resp.Currencies = []host.Currency{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if resp.Hooks == nil {
		resp.Hooks = []string{}
	}
	common.JSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidParams) {
		common.WriteError(w, common.BadRequest("INVALID_PARAMS", err))
		return
	}
	if errors.Is(err, host.ErrCurrencyNotFound) {
		common.JSONError(w, http.StatusUnprocessableEntity, "CURRENCY_NOT_FOUND", err.Error(), nil)
		return
	}
	h.Logger.Error().Err(err).Msg("transactpay request failed")
	common.WriteError(w, err)
}
