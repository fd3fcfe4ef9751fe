// Package adminform describes back-office configuration forms declaratively.
// Modules build a Page; a renderer turns it into HTML.
package adminform

// FieldType selects the input widget of a field.
type FieldType string

const (
	Text     FieldType = "text"
	Textarea FieldType = "textarea"
	Switch   FieldType = "switch"
	Password FieldType = "password"
)

// Field is one input of a form.
type Field struct {
	Name     string
	Type     FieldType
	Label    string
	Desc     string
	Hint     string
	Required bool
	// Lang marks a field submitted once per language as Name_<languageID>.
	Lang bool
}

// Form is a titled group of fields with its own submit button.
type Form struct {
	Legend string
	Icon   string
	Fields []Field
	Submit string
}

// Language is a language tab offered for Lang fields.
type Language struct {
	ID   int64
	Code string
}

// Values are the current field values shown in the form.
type Values struct {
	Plain map[string]string
	Lang  map[string]map[int64]string
}

// NewValues returns empty values ready to be filled.
func NewValues() Values {
	return Values{Plain: map[string]string{}, Lang: map[string]map[int64]string{}}
}

// Get returns the plain value for name.
func (v Values) Get(name string) string {
	return v.Plain[name]
}

// GetLang returns the value of a Lang field for one language.
func (v Values) GetLang(name string, languageID int64) string {
	return v.Lang[name][languageID]
}

// Page is everything needed to render the configuration page.
type Page struct {
	Action            string
	SubmitAction      string
	Forms             []Form
	Values            Values
	Languages         []Language
	DefaultLanguageID int64
}

// FieldNames lists every field name in the page, in order.
func (p Page) FieldNames() []string {
	var names []string
	for _, f := range p.Forms {
		for _, field := range f.Fields {
			names = append(names, field.Name)
		}
	}
	return names
}
