package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches a single ASCII Python identifier segment.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateModuleName validates a dotted module name such as "foo.sub.mod".
//
// The validation rules are intentionally conservative:
//   - No empty names or empty segments
//   - No control characters
//   - Every segment must be an identifier
//   - Maximum length of 512 characters
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModuleName, "module name cannot be empty")
	}

	if len(name) > 512 {
		return New(ErrCodeInvalidModuleName, "module name too long (max 512 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModuleName, "module name contains invalid control characters")
		}
	}

	for _, seg := range strings.Split(name, ".") {
		if !identifierRegex.MatchString(seg) {
			return New(ErrCodeInvalidModuleName, "invalid module name segment %q in %q", seg, name)
		}
	}

	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// Only the redis and rediss schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}

	return nil
}
