package google

import "strings"

// maxTitle is the Sheets limit on tab names.
const maxTitle = 100

// sheetTitle returns "<base> <propertyID>", or "<base> all" for the global
// digest. Characters Sheets rejects in tab names are replaced.
func sheetTitle(base, propertyID string) string {
	base = strings.TrimSpace(base)
	suffix := strings.TrimSpace(propertyID)
	if suffix == "" {
		suffix = "all"
	}
	title := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '?', '/', '\\', ':', '\'':
			return '_'
		}
		return r
	}, base+" "+suffix)
	if len(title) > maxTitle {
		title = title[:maxTitle]
	}
	return title
}

func hasSheet(titles []string, title string) bool {
	for _, t := range titles {
		if strings.EqualFold(strings.TrimSpace(t), title) {
			return true
		}
	}
	return false
}
