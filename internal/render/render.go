// Package render renders the module's HTML fragments from embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/adminform"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer executes named templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("render").Funcs(template.FuncMap{
		"isOn": confstore.ParseBool,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustNew is New that panics on error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Fetch renders the template called name with vars.
func (r *Renderer) Fetch(name string, vars any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, vars); err != nil {
		return "", fmt.Errorf("render: %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderForm renders a configuration page.
func (r *Renderer) RenderForm(page adminform.Page) (string, error) {
	if page.SubmitAction == "" {
		page.SubmitAction = "btnSubmit"
	}
	return r.Fetch("admin_form", page)
}

// Confirmation renders a success notice.
func (r *Renderer) Confirmation(message string) (string, error) {
	return r.Fetch("confirmation", message)
}

// Error renders an error notice.
func (r *Renderer) Error(message string) (string, error) {
	return r.Fetch("error", message)
}
