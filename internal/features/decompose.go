package features

import (
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Parts is the registrable-domain decomposition of a host:
// "www.sub.example.co.uk" splits into Subdomain "www.sub", Domain "example"
// and Suffix "co.uk". Any part may be empty.
type Parts struct {
	Subdomain string
	Domain    string
	Suffix    string
}

var (
	dottedQuadPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+\.[0-9]+$`)
	schemePattern     = regexp.MustCompile(`^[A-Za-z0-9+.\-]+://`)
)

// Decompose splits the host of rawURL into subdomain, domain and ICANN
// public suffix. The second result is false when no host can be derived,
// in which case Parts is zero.
//
// A valid IPv4 address, or an IPv6 literal in brackets, is returned whole as
// Domain. Hosts that only look like an address, such as "999.999.999.999",
// are split on dots like any other name.
func Decompose(rawURL string) (Parts, bool) {
	host := hostOf(rawURL)
	if host == "" {
		return Parts{}, false
	}

	if isIPHost(host) {
		return Parts{Domain: host}, true
	}

	labels := strings.Split(host, ".")
	suffixLabels := 0
	if suffix := icannSuffix(strings.ToLower(host)); suffix != "" {
		suffixLabels = strings.Count(suffix, ".") + 1
	}
	if suffixLabels > len(labels) {
		suffixLabels = len(labels)
	}

	rest := labels[:len(labels)-suffixLabels]
	parts := Parts{Suffix: strings.Join(labels[len(labels)-suffixLabels:], ".")}
	if len(rest) == 0 {
		return parts, true
	}

	parts.Domain = rest[len(rest)-1]
	parts.Subdomain = strings.Join(rest[:len(rest)-1], ".")
	return parts, true
}

// hostOf extracts the host from a URL-ish string without rejecting inputs
// that net/url would refuse. A scheme is only removed when it starts the
// string, so " http://x.com" yields the host "http".
func hostOf(rawURL string) string {
	s := rawURL

	if loc := schemePattern.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	} else {
		s = strings.TrimPrefix(s, "//")
	}

	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}

	// Bracketed literals keep their brackets and drop any port.
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			return s[:end+1]
		}
	}

	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, ".")
}

// isIPHost reports whether host is a valid IPv4 address or a bracketed IPv6
// literal. Octets must be in range and carry no leading zeros.
func isIPHost(host string) bool {
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		ip := net.ParseIP(host[1 : len(host)-1])
		return ip != nil && strings.Contains(host, ":")
	}
	return isDottedQuad(host) && net.ParseIP(host) != nil
}

// icannSuffix returns the longest ICANN public suffix of host, or "" when
// the host ends in a label the ICANN section does not know. Private
// section entries such as "blogspot.com" are skipped.
func icannSuffix(host string) string {
	candidate := host
	for {
		suffix, icann := publicsuffix.PublicSuffix(candidate)
		if icann {
			return suffix
		}

		dot := strings.Index(suffix, ".")
		if dot < 0 {
			return ""
		}
		candidate = suffix[dot+1:]
	}
}

// isDottedQuad reports whether s is four dot-separated runs of ASCII digits.
// Octet ranges are not checked: "999.999.999.999" matches.
func isDottedQuad(s string) bool {
	return dottedQuadPattern.MatchString(s)
}
