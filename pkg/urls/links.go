package urls

import (
	"regexp"
	"strings"
)

var (
	relativeRe  = regexp.MustCompile(`^\.*/`)
	schemeRe    = regexp.MustCompile(`^\w+?:`)
	authorityRe = regexp.MustCompile(`^(?:\w+?:)?//`)

	mailRe = regexp.MustCompile(`(?i)^mailto:[a-z0-9.!#$%&'*+/=?^_{|}~-]+@[a-z0-9](?:[a-z0-9-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)+(?:\?.*)?$`)
	telRe  = regexp.MustCompile(`(?i)^(?:tel:)?\+?[0-9(][0-9 ()./-]{4,}[0-9]$`)
	urlRe  = regexp.MustCompile(`(?i)^(?:https?|ftp)://(?:localhost|[a-z0-9\x{00a1}-\x{ffff}](?:[a-z0-9\x{00a1}-\x{ffff}-]*[a-z0-9\x{00a1}-\x{ffff}])?(?:\.[a-z0-9\x{00a1}-\x{ffff}](?:[a-z0-9\x{00a1}-\x{ffff}-]*[a-z0-9\x{00a1}-\x{ffff}])?)+|\d{1,3}(?:\.\d{1,3}){3})(?::\d{2,5})?(?:[/?#]\S*)?$`)
)

// NormalizeURL prepends https:// to humanized URLs such as "example.com".
// Relative paths and URLs that already carry a scheme are returned trimmed.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if relativeRe.MatchString(u) {
		return u
	}
	if schemeRe.MatchString(u) && !strings.HasPrefix(u, "localhost") {
		return u
	}
	if authorityRe.MatchString(u) {
		return u
	}
	return "https://" + u
}

// IsURL reports whether u is an absolute http, https or ftp URL.
func IsURL(u string) bool { return urlRe.MatchString(u) }

// IsMail reports whether s is a mailto: address.
func IsMail(s string) bool { return mailRe.MatchString(s) }

// IsTelephone reports whether s looks like a phone number, with or without
// the tel: scheme.
func IsTelephone(s string) bool { return telRe.MatchString(s) }

// NormaliseMail adds the mailto: scheme when missing.
func NormaliseMail(email string) string {
	if strings.HasPrefix(strings.ToLower(email), "mailto:") {
		return email
	}
	return "mailto:" + email
}

// NormalizeTelephone adds the tel: scheme when missing.
func NormalizeTelephone(tel string) string {
	if strings.HasPrefix(strings.ToLower(tel), "tel:") {
		return tel
	}
	return "tel:" + tel
}

// Link is the result of CheckAndNormalizeURL.
type Link struct {
	URL         string
	IsMail      bool
	IsTelephone bool
	IsValid     bool
}

// CheckAndNormalizeURL classifies a user entered link target and returns
// it in canonical form.
func CheckAndNormalizeURL(u string) Link {
	res := Link{URL: u, IsValid: true}
	switch {
	case IsMail(NormaliseMail(u)):
		res.IsMail = true
		res.URL = NormaliseMail(u)
	case IsTelephone(u):
		res.IsTelephone = true
		res.URL = NormalizeTelephone(u)
	case !strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "#"):
		res.URL = NormalizeURL(u)
		res.IsValid = IsURL(res.URL)
	}
	return res
}
