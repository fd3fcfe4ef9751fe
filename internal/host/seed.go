package host

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLanguages parses "id:iso:name" entries separated by commas, e.g. "1:en:English,2:fr:Français".
func ParseLanguages(csv string) ([]Language, error) {
	var out []Language
	for _, entry := range splitEntries(csv) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("host: invalid language entry %q", entry)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("host: invalid language id in %q", entry)
		}
		l := Language{ID: id, ISOCode: strings.TrimSpace(parts[1])}
		if len(parts) == 3 {
			l.Name = strings.TrimSpace(parts[2])
		}
		out = append(out, l)
	}
	return out, nil
}

// ParseCurrencies parses "id:ISO[:name]" entries separated by commas, e.g. "1:EUR:Euro,2:USD".
func ParseCurrencies(csv string) ([]Currency, error) {
	var out []Currency
	for _, entry := range splitEntries(csv) {
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("host: invalid currency entry %q", entry)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("host: invalid currency id in %q", entry)
		}
		c := Currency{ID: id, ISOCode: strings.ToUpper(strings.TrimSpace(parts[1]))}
		if len(parts) == 3 {
			c.Name = strings.TrimSpace(parts[2])
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseIDs parses a comma separated list of positive ids.
func ParseIDs(csv string) ([]int64, error) {
	var out []int64
	for _, entry := range splitEntries(csv) {
		id, err := strconv.ParseInt(entry, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("host: invalid id %q", entry)
		}
		out = append(out, id)
	}
	return out, nil
}

func splitEntries(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
