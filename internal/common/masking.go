package common

import (
	"net/url"
	"regexp"
	"strings"
)

// MaskedValue replaces any value considered sensitive.
const MaskedValue = "***MASKED***"

// SensitivePattern represents a pattern to detect and mask sensitive information
type SensitivePattern struct {
	Name        string         // Pattern name (e.g., "password", "api_key")
	Regex       *regexp.Regexp // Regular expression to match sensitive data
	Replacement string         // Replacement string
	Keys        []string       // Attribute or query parameter names to mask (case-insensitive)
}

// DefaultSensitivePatterns covers credentials that commonly leak through checked URLs.
var DefaultSensitivePatterns = []SensitivePattern{
	{
		Name:        "password",
		Regex:       regexp.MustCompile(`(?i)\b(password|passwd|pwd)=([^&\s#]+)`),
		Replacement: "${1}=" + MaskedValue,
		Keys:        []string{"password", "passwd", "pwd"},
	},
	{
		Name:        "api_key",
		Regex:       regexp.MustCompile(`(?i)\b(api[_-]?key|apikey)=([^&\s#]+)`),
		Replacement: "${1}=" + MaskedValue,
		Keys:        []string{"api_key", "apikey", "api-key"},
	},
	{
		Name:        "token",
		Regex:       regexp.MustCompile(`(?i)\b(token|access[_-]?token|auth[_-]?token)=([^&\s#]+)`),
		Replacement: "${1}=" + MaskedValue,
		Keys:        []string{"token", "access_token", "auth_token", "access-token", "auth-token"},
	},
	{
		Name:        "secret",
		Regex:       regexp.MustCompile(`(?i)\b(secret|client[_-]?secret)=([^&\s#]+)`),
		Replacement: "${1}=" + MaskedValue,
		Keys:        []string{"secret", "client_secret", "client-secret"},
	},
	{
		Name:        "bearer_token",
		Regex:       regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
		Replacement: "Bearer " + MaskedValue,
	},
}

// Masker handles masking of sensitive information in logs
type Masker struct {
	patterns []SensitivePattern
	enabled  bool
}

// NewMasker creates a new masker with default patterns
func NewMasker() *Masker {
	return &Masker{
		patterns: DefaultSensitivePatterns,
		enabled:  true,
	}
}

// SetEnabled enables or disables masking
func (m *Masker) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IsEnabled returns whether masking is enabled
func (m *Masker) IsEnabled() bool {
	return m.enabled
}

// MaskString masks sensitive information in a string
func (m *Masker) MaskString(input string) string {
	if !m.enabled {
		return input
	}
	result := input
	for _, pattern := range m.patterns {
		result = pattern.Regex.ReplaceAllString(result, pattern.Replacement)
	}
	return result
}

// MaskURL masks the values of sensitive query parameters while keeping the
// rest of the URL readable. Unparseable input falls back to MaskString.
func (m *Masker) MaskURL(raw string) string {
	if !m.enabled {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.RawQuery == "" && u.User == nil) {
		return m.MaskString(raw)
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), MaskedValue)
		}
	}
	if u.RawQuery == "" {
		return u.String()
	}
	parts := strings.Split(u.RawQuery, "&")
	for i, p := range parts {
		k, _, found := strings.Cut(p, "=")
		if found && m.isSensitiveKey(k) {
			parts[i] = k + "=" + MaskedValue
		}
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}

// MaskValue masks sensitive information based on key-value context
func (m *Masker) MaskValue(key string, value interface{}) interface{} {
	if !m.enabled {
		return value
	}
	strValue, ok := value.(string)
	if !ok {
		return value
	}
	if m.isSensitiveKey(key) {
		return MaskedValue
	}
	if strings.EqualFold(key, "url") {
		return m.MaskURL(strValue)
	}
	return m.MaskString(strValue)
}

func (m *Masker) isSensitiveKey(key string) bool {
	for _, pattern := range m.patterns {
		for _, sensitiveKey := range pattern.Keys {
			if strings.EqualFold(key, sensitiveKey) {
				return true
			}
		}
	}
	return false
}
