// Package privacy masks window titles that may reveal personal activity.
package privacy

import "strings"

const (
	DefaultPlaceholder = "Private Activity"
	UnknownTitle       = "Unknown"
)

// DefaultKeywords is matched in order; the first hit masks the title.
var DefaultKeywords = []string{"bank", "whatsapp", "login", "password", "pay", "email"}

// Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	keywords    []string
	placeholder string
}

// New returns a Filter for keywords. Keywords are matched case-insensitively;
// blank entries are dropped. When nothing is left, DefaultKeywords apply, so a
// Filter always masks something.
func New(keywords []string, placeholder string) *Filter {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	f := &Filter{placeholder: placeholder}
	f.keywords = normalize(keywords)
	if len(f.keywords) == 0 {
		f.keywords = normalize(DefaultKeywords)
	}
	return f
}

// Keywords returns the normalized keywords in match order.
func (f *Filter) Keywords() []string {
	return append([]string(nil), f.keywords...)
}

// HasKeywords reports whether keywords holds at least one non-blank entry.
func HasKeywords(keywords []string) bool {
	return len(normalize(keywords)) > 0
}

func normalize(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Classify returns the title to display and whether it was masked. Titles are
// either passed through untouched or replaced wholesale.
func (f *Filter) Classify(title string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		title = UnknownTitle
	}
	if _, ok := f.Match(title); ok {
		return f.placeholder, true
	}
	return title, false
}

// Match returns the first keyword contained in title.
func (f *Filter) Match(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, k := range f.keywords {
		if strings.Contains(lower, k) {
			return k, true
		}
	}
	return "", false
}
