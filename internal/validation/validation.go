package validation

import (
	"net/url"
	"strings"
)

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// SafeImageURL returns urlStr when it is an absolute http(s) URL, otherwise "".
// Remote records are rendered as-is, so their image links are filtered here.
func SafeImageURL(urlStr string) string {
	if valid, _ := ValidateURL(strings.TrimSpace(urlStr)); !valid {
		return ""
	}
	return strings.TrimSpace(urlStr)
}
