// Package features turns a raw URL into the fixed feature vector the
// phishing model was trained on.
package features

import (
	"strings"
	"unicode/utf8"
)

// Vector is the feature record for one URL. Subdomain, Domain and Suffix
// are nil when the URL could not be decomposed.
type Vector struct {
	URL             string  `json:"url"`
	URLLength       int     `json:"url_length"`
	NumSpecialChars int     `json:"num_special_chars"`
	Subdomain       *string `json:"subdomain"`
	Domain          *string `json:"domain"`
	Suffix          *string `json:"suffix"`
	IsIP            int     `json:"is_ip"`
	SubdomainLength int     `json:"subdomain_length"`
	HasHTTPS        int     `json:"has_https"`
}

// Decomposed reports whether the domain parts are present.
func (v Vector) Decomposed() bool {
	return v.Domain != nil
}

// Extract builds the feature vector for rawURL. It never fails: a URL
// without a usable host yields absent domain parts and IsIP 0.
func Extract(rawURL string) Vector {
	v := Vector{
		URL:             rawURL,
		URLLength:       utf8.RuneCountInString(rawURL),
		NumSpecialChars: countSpecialChars(rawURL),
		HasHTTPS:        boolToInt(strings.HasPrefix(rawURL, "https")),
	}

	parts, ok := Decompose(rawURL)
	if !ok {
		return v
	}

	v.Subdomain = &parts.Subdomain
	v.Domain = &parts.Domain
	v.Suffix = &parts.Suffix
	v.IsIP = boolToInt(isDottedQuad(parts.Domain))
	v.SubdomainLength = utf8.RuneCountInString(parts.Subdomain)
	return v
}

// countSpecialChars counts runes outside [a-zA-Z0-9].
func countSpecialChars(s string) int {
	n := 0
	for _, r := range s {
		if !isASCIIAlnum(r) {
			n++
		}
	}
	return n
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
