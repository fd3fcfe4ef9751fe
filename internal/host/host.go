// Package host models the parts of the shop platform the payment module talks to:
// currencies, languages, hook registrations and the installed-module table.
package host

import (
	"context"
	"errors"
)

// ErrCurrencyNotFound is returned when a currency id is unknown to the registry.
var ErrCurrencyNotFound = errors.New("host: currency not found")

// Currency is a shop currency.
type Currency struct {
	ID      int64  `json:"id"`
	ISOCode string `json:"isoCode"`
	Name    string `json:"name"`
}

// Language is a shop language.
type Language struct {
	ID      int64  `json:"id"`
	ISOCode string `json:"isoCode"`
	Name    string `json:"name"`
}

// CurrencyRegistry exposes the currencies a module is allowed to accept.
type CurrencyRegistry interface {
	SupportedCurrencies(ctx context.Context, module string) ([]int64, error)
	CheckPaymentCurrencies(ctx context.Context, module string) ([]Currency, error)
	Currency(ctx context.Context, id int64) (Currency, error)
}

// LanguageRegistry lists the shop languages.
type LanguageRegistry interface {
	Languages(ctx context.Context) ([]Language, error)
}

// HookRegistry records which hooks a module is attached to.
type HookRegistry interface {
	RegisterHook(ctx context.Context, module, hook string) error
	UnregisterHooks(ctx context.Context, module string) error
	Hooks(ctx context.Context, module string) ([]string, error)
}

// ModuleRegistry tracks installed modules and whether they are active.
type ModuleRegistry interface {
	Install(ctx context.Context, module string) error
	Uninstall(ctx context.Context, module string) error
	IsActive(ctx context.Context, module string) (bool, error)
}
