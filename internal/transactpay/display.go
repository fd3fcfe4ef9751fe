package transactpay

import (
	"html"
	"html/template"
	"strings"
)

const (
	// Placeholder replaces bank details that are not configured.
	Placeholder = "___________"
	// DefaultReservationDays applies when no reservation period was ever saved.
	DefaultReservationDays = 7
)

// DisplayInfo is the data the intro and payment return templates render.
type DisplayInfo struct {
	Total           string
	Owner           template.HTML
	Details         template.HTML
	Address         template.HTML
	ReservationDays int
	CustomText      template.HTML

	ShopName   string
	Reference  string
	ContactURL string
	Status     string
}

// BuildDisplayInfo applies the display defaults to the settings.
func BuildDisplayInfo(s BankWireSettings, languageID int64, total string) DisplayInfo {
	info := DisplayInfo{
		Total:           total,
		Owner:           orPlaceholder(template.HTML(html.EscapeString(s.Owner))),
		Details:         orPlaceholder(nl2br(s.Details)),
		Address:         orPlaceholder(nl2br(s.Address)),
		ReservationDays: DefaultReservationDays,
		CustomText:      nl2br(s.CustomText[languageID]),
	}
	if s.ReservationDays != nil {
		info.ReservationDays = *s.ReservationDays
	}
	return info
}

func orPlaceholder(v template.HTML) template.HTML {
	if strings.TrimSpace(string(v)) == "" {
		return Placeholder
	}
	return v
}

var newlines = strings.NewReplacer("\r\n", "<br />\r\n", "\n", "<br />\n", "\r", "<br />\r")

// nl2br escapes s and inserts a line break before every newline.
func nl2br(s string) template.HTML {
	return template.HTML(newlines.Replace(html.EscapeString(s)))
}
