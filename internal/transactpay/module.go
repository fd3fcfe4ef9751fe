package transactpay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/adminform"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/obs"
)

// Configuration warnings.
const (
	WarningCredentials = "TransactPay Secret Key, Public Key and Encryption Key must be configured before using this module."
	WarningNoCurrency  = "No currency has been set for this module."
)

// CallToActionText labels the payment option button.
const CallToActionText = "Proceed to TransactPay"

// Template names.
const (
	templateIntro  = "payment_intro"
	templateReturn = "payment_return"
	templateInfos  = "infos"
)

// PaymentModule is the surface the host drives.
type PaymentModule interface {
	Install(ctx context.Context) error
	Uninstall(ctx context.Context) error
	PaymentOptions(ctx context.Context, p OptionsParams) ([]PaymentOption, error)
	PaymentReturn(ctx context.Context, p ReturnParams) (string, bool, error)
	AdminPage(ctx context.Context, sub *Submission) (AdminResult, error)
}

var _ PaymentModule = (*Module)(nil)

// Renderer renders the module's templates and admin form.
type Renderer interface {
	Fetch(name string, vars any) (string, error)
	RenderForm(page adminform.Page) (string, error)
	Confirmation(message string) (string, error)
	Error(message string) (string, error)
}

// PaymentOption is one entry offered at checkout.
type PaymentOption struct {
	ModuleName            string `json:"moduleName"`
	CallToActionText      string `json:"callToActionText"`
	Action                string `json:"action"`
	AdditionalInformation string `json:"additionalInformation"`
}

// AdminResult is the rendered configuration page and the outcome of any submission.
type AdminResult struct {
	HTML   string
	Saved  bool
	Errors []FieldError
}

// State summarises the configuration health of the module for the current shop.
type State struct {
	Active      bool
	Ready       bool
	GoLive      bool
	Credentials CredentialSet
	Currencies  []host.Currency
	Warnings    []string
	MailVars    map[string]string
}

// Links builds the URLs the module renders.
type Links struct {
	BaseURL    string
	ContactURL string
	AdminURL   string
}

// ModuleLink returns the front controller URL of a module.
func (l Links) ModuleLink(module, controller string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/module/" + module + "/" + controller
}

// Config wires a Module to its host.
type Config struct {
	Store      confstore.Store
	Currencies host.CurrencyRegistry
	Languages  host.LanguageRegistry
	Hooks      host.HookRegistry
	Modules    host.ModuleRegistry
	Renderer   Renderer
	Validator  *SettingsValidator
	Links      Links
	ShopName   string
	// DefaultLanguageID selects the initial language tab of the admin form.
	DefaultLanguageID int64
	Logger            zerolog.Logger
}

// Module is the TransactPay payment module.
type Module struct {
	name       string
	store      confstore.Store
	currencies host.CurrencyRegistry
	languages  host.LanguageRegistry
	hooks      host.HookRegistry
	modules    host.ModuleRegistry
	renderer   Renderer
	validator  *SettingsValidator
	persister  Persister
	links      Links
	shopName   string
	defaultLng int64
	logger     zerolog.Logger
}

// New validates cfg and returns a Module.
func New(cfg Config) (*Module, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("transactpay: configuration store is required")
	case cfg.Currencies == nil, cfg.Languages == nil:
		return nil, errors.New("transactpay: currency and language registries are required")
	case cfg.Hooks == nil, cfg.Modules == nil:
		return nil, errors.New("transactpay: hook and module registries are required")
	case cfg.Renderer == nil:
		return nil, errors.New("transactpay: renderer is required")
	}
	v := cfg.Validator
	if v == nil {
		v = NewSettingsValidator()
	}
	return &Module{
		name:       ModuleName,
		store:      cfg.Store,
		currencies: cfg.Currencies,
		languages:  cfg.Languages,
		hooks:      cfg.Hooks,
		modules:    cfg.Modules,
		renderer:   cfg.Renderer,
		validator:  v,
		persister:  Persister{Store: cfg.Store, Languages: cfg.Languages},
		links:      cfg.Links,
		shopName:   cfg.ShopName,
		defaultLng: cfg.DefaultLanguageID,
		logger:     cfg.Logger.With().Str("module", ModuleName).Logger(),
	}, nil
}

// Name returns the module's technical name.
func (m *Module) Name() string { return m.name }

// Install enables the payment invite and registers the module and its hooks.
func (m *Module) Install(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("transactpay.Module").Start(ctx, "Module.Install")
	defer span.End()
	defer m.recordLifecycle(ctx, "install", &err)

	if err := confstore.SetBool(ctx, m.store, FlagDisplayPaymentInvite, true); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	if err := m.modules.Install(ctx, m.name); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	for _, hook := range installHooks {
		if err := m.hooks.RegisterHook(ctx, m.name, hook); err != nil {
			return fmt.Errorf("install: register %s: %w", hook, err)
		}
	}
	return nil
}

// Uninstall removes every configuration key, then the hooks and the module itself.
func (m *Module) Uninstall(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("transactpay.Module").Start(ctx, "Module.Uninstall")
	defer span.End()
	defer m.recordLifecycle(ctx, "uninstall", &err)

	for _, key := range uninstallKeys {
		if err := m.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("uninstall: delete %s: %w", key, err)
		}
	}
	if err := m.hooks.UnregisterHooks(ctx, m.name); err != nil {
		return fmt.Errorf("uninstall: %w", err)
	}
	if err := m.modules.Uninstall(ctx, m.name); err != nil {
		return fmt.Errorf("uninstall: %w", err)
	}
	return nil
}

func (m *Module) recordLifecycle(ctx context.Context, action string, errp *error) {
	result := "ok"
	if *errp != nil {
		result = "error"
		m.logger.Error().Err(*errp).Str("action", action).Msg("module lifecycle failed")
	} else {
		m.logger.Info().Str("action", action).Msg("module lifecycle completed")
	}
	if obs.ModuleLifecycleTotal != nil {
		obs.ModuleLifecycleTotal.WithLabelValues(action, result).Inc()
	}
}

// State reads the credentials and currency assignment and reports what is missing.
func (m *Module) State(ctx context.Context) (State, error) {
	active, err := m.modules.IsActive(ctx, m.name)
	if err != nil {
		return State{}, fmt.Errorf("state: %w", err)
	}
	creds, err := LoadCredentials(ctx, m.store)
	if err != nil {
		return State{}, fmt.Errorf("state: %w", err)
	}
	current := creds.Active()
	st := State{
		Active:      active,
		GoLive:      creds.GoLive,
		Credentials: current,
		MailVars:    MailVars(current),
	}
	if !current.Complete() {
		st.Warnings = append(st.Warnings, WarningCredentials)
	}
	if active {
		st.Currencies, err = m.currencies.CheckPaymentCurrencies(ctx, m.name)
		if err != nil {
			return State{}, fmt.Errorf("state: %w", err)
		}
		if len(st.Currencies) == 0 {
			st.Warnings = append(st.Warnings, WarningNoCurrency)
		}
	}
	st.Ready = active && current.Complete()
	if len(st.Warnings) > 0 {
		m.logger.Warn().Strs("warnings", st.Warnings).Bool("go_live", st.GoLive).Msg("module not fully configured")
	}
	return st, nil
}

// PaymentOptions returns the TransactPay option when the module is active and the
// cart currency is assigned to it, and an empty list otherwise.
func (m *Module) PaymentOptions(ctx context.Context, p OptionsParams) (options []PaymentOption, err error) {
	ctx, span := otel.Tracer("transactpay.Module").Start(ctx, "Module.PaymentOptions")
	defer span.End()

	start := time.Now()
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.Int64("cart.currency_id", p.Cart.CurrencyID),
			attribute.String("payment_options.result", result),
			attribute.Float64("payment_options.duration_ms", obs.DurationMillis(time.Since(start))),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if obs.PaymentOptionsTotal != nil {
			obs.PaymentOptionsTotal.WithLabelValues(result).Inc()
		}
	}()

	if err := p.Cart.Validate(); err != nil {
		result = "invalid"
		return nil, err
	}
	active, err := m.modules.IsActive(ctx, m.name)
	if err != nil {
		return nil, fmt.Errorf("payment options: %w", err)
	}
	if !active {
		result = "inactive"
		return []PaymentOption{}, nil
	}
	supported, err := m.currencies.SupportedCurrencies(ctx, m.name)
	if err != nil {
		return nil, fmt.Errorf("payment options: %w", err)
	}
	if !IsEligible(p.Cart.CurrencyID, supported) {
		result = "ineligible"
		return []PaymentOption{}, nil
	}

	currency, err := m.currencies.Currency(ctx, p.Cart.CurrencyID)
	if err != nil {
		return nil, fmt.Errorf("payment options: %w", err)
	}
	settings, err := LoadSettings(ctx, m.store, p.LanguageID)
	if err != nil {
		return nil, fmt.Errorf("payment options: %w", err)
	}
	info := BuildDisplayInfo(settings, p.LanguageID, TaxIncluded(FormatPrice(p.Cart.Total, currency.ISOCode)))
	intro, err := m.renderer.Fetch(templateIntro, info)
	if err != nil {
		return nil, fmt.Errorf("payment options: %w", err)
	}
	result = "offered"
	return []PaymentOption{{
		ModuleName:            m.name,
		CallToActionText:      CallToActionText,
		Action:                m.links.ModuleLink(m.name, "validation"),
		AdditionalInformation: intro,
	}}, nil
}

// PaymentReturn renders the invitation to pay shown after checkout. shown is false
// when the module is inactive or the invitation is disabled.
func (m *Module) PaymentReturn(ctx context.Context, p ReturnParams) (html string, shown bool, err error) {
	ctx, span := otel.Tracer("transactpay.Module").Start(ctx, "Module.PaymentReturn")
	defer span.End()

	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("order.reference", p.Order.Reference),
			attribute.String("payment_return.result", result),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if obs.PaymentReturnTotal != nil {
			obs.PaymentReturnTotal.WithLabelValues(result).Inc()
		}
	}()

	if err := p.Order.Validate(); err != nil {
		result = "invalid"
		return "", false, err
	}
	active, err := m.modules.IsActive(ctx, m.name)
	if err != nil {
		return "", false, fmt.Errorf("payment return: %w", err)
	}
	settings, err := LoadSettings(ctx, m.store, p.LanguageID)
	if err != nil {
		return "", false, fmt.Errorf("payment return: %w", err)
	}
	if !active || !settings.DisplayPaymentInvite {
		result = "hidden"
		return "", false, nil
	}
	currency, err := m.currencies.Currency(ctx, p.Order.CurrencyID)
	if err != nil {
		return "", false, fmt.Errorf("payment return: %w", err)
	}
	info := BuildDisplayInfo(settings, p.LanguageID, FormatPrice(p.Order.AmountDue(), currency.ISOCode))
	info.ShopName = m.shopName
	info.Reference = p.Order.Reference
	info.ContactURL = m.links.ContactURL
	info.Status = "ok"
	html, err = m.renderer.Fetch(templateReturn, info)
	if err != nil {
		return "", false, fmt.Errorf("payment return: %w", err)
	}
	result = "shown"
	return html, true, nil
}

// AdminPage handles an optional settings submission and renders the configuration page.
func (m *Module) AdminPage(ctx context.Context, sub *Submission) (AdminResult, error) {
	ctx, span := otel.Tracer("transactpay.Module").Start(ctx, "Module.AdminPage")
	defer span.End()
	span.SetAttributes(attribute.Bool("admin.submission", sub != nil))

	var res AdminResult
	var b strings.Builder
	if sub != nil {
		validated, errs := m.validator.Validate(sub.Input)
		if len(errs) == 0 {
			if err := m.persister.Persist(ctx, validated); err != nil {
				m.countSubmit("error")
				span.RecordError(err)
				return AdminResult{}, err
			}
			m.countSubmit("saved")
			res.Saved = true
			notice, err := m.renderer.Confirmation("Settings updated")
			if err != nil {
				return AdminResult{}, err
			}
			b.WriteString(notice)
		} else {
			m.countSubmit("invalid")
			res.Errors = errs
			for _, fe := range errs {
				notice, err := m.renderer.Error(fe.Message)
				if err != nil {
					return AdminResult{}, err
				}
				b.WriteString(notice)
			}
		}
	} else {
		b.WriteString("<br />")
	}

	st, err := m.State(ctx)
	if err != nil {
		return AdminResult{}, err
	}
	infos, err := m.renderer.Fetch(templateInfos, map[string]any{"Warnings": st.Warnings})
	if err != nil {
		return AdminResult{}, err
	}
	b.WriteString(infos)

	page, err := m.configPage(ctx, sub)
	if err != nil {
		return AdminResult{}, err
	}
	form, err := m.renderer.RenderForm(page)
	if err != nil {
		return AdminResult{}, err
	}
	b.WriteString(form)
	res.HTML = b.String()
	return res, nil
}

func (m *Module) countSubmit(result string) {
	if obs.SettingsSubmitTotal != nil {
		obs.SettingsSubmitTotal.WithLabelValues(result).Inc()
	}
}

func (m *Module) configPage(ctx context.Context, sub *Submission) (adminform.Page, error) {
	languages, err := m.languages.Languages(ctx)
	if err != nil {
		return adminform.Page{}, fmt.Errorf("admin page: %w", err)
	}
	values, err := formValues(ctx, m.store, languages, sub)
	if err != nil {
		return adminform.Page{}, fmt.Errorf("admin page: %w", err)
	}
	page := adminform.Page{
		Action:            m.links.AdminURL,
		SubmitAction:      SubmitAction,
		Forms:             Forms(),
		Values:            values,
		DefaultLanguageID: m.defaultLng,
	}
	for _, lang := range languages {
		page.Languages = append(page.Languages, adminform.Language{ID: lang.ID, Code: lang.ISOCode})
	}
	if page.DefaultLanguageID == 0 && len(languages) > 0 {
		page.DefaultLanguageID = languages[0].ID
	}
	return page, nil
}

// Hooks lists the hooks currently registered for the module.
func (m *Module) Hooks(ctx context.Context) ([]string, error) {
	return m.hooks.Hooks(ctx, m.name)
}
