package validation

import (
	"net"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field length limits for submitted entries.
const (
	MaxNameLength        = 200
	MaxLinkLength        = 2048
	MaxDescriptionLength = 2000
)

// Error describes an invalid submission field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}

// Submission holds the descriptive fields shared by requests and entries.
type Submission struct {
	Name        string
	Link        string
	Description string
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:        strings.TrimSpace(s.Name),
		Link:        strings.TrimSpace(s.Link),
		Description: strings.TrimSpace(s.Description),
	}
}

// ValidateSubmission normalizes s and checks that every field is present,
// within its length limit, and that the link is an http(s) URL.
func ValidateSubmission(s Submission) (Submission, error) {
	s = s.Normalize()

	switch {
	case s.Name == "":
		return s, &Error{Field: "name", Message: "Name is required"}
	case utf8.RuneCountInString(s.Name) > MaxNameLength:
		return s, &Error{Field: "name", Message: "Name is too long"}
	case s.Description == "":
		return s, &Error{Field: "description", Message: "Description is required"}
	case utf8.RuneCountInString(s.Description) > MaxDescriptionLength:
		return s, &Error{Field: "description", Message: "Description is too long"}
	case len(s.Link) > MaxLinkLength:
		return s, &Error{Field: "link", Message: "Link is too long"}
	}

	if valid, msg := ValidateURL(s.Link); !valid {
		return s, &Error{Field: "link", Message: msg}
	}
	return s, nil
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF attacks against internal networks.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	// Check for loopback and link-local
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	// Check for private ranges and unspecified (0.0.0.0 or ::)
	if ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints (AWS/GCP share 169.254.169.254, Azure also uses 168.63.129.16)
	for _, metadata := range []string{"169.254.169.254", "168.63.129.16"} {
		if ip.Equal(net.ParseIP(metadata)) {
			return true
		}
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked, false if it's safe to access.
func IsPrivateHost(host string) (bool, error) {
	// Remove port if present
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	// Resolve the hostname
	ips, err := net.LookupIP(hostname)
	if err != nil {
		// If we can't resolve, be conservative and block
		return true, err
	}

	// Check all resolved IPs
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForHealthCheck validates a URL is safe for health checking.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForHealthCheck(urlStr string) (bool, string) {
	// First do basic URL validation
	valid, msg := ValidateURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	// Check if host resolves to private IP
	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
