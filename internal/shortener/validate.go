package shortener

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	MaxURLLength   = 2048
	MaxAliasLength = 32
	// MaxCodeLength bounds codes accepted on the resolve path.
	MaxCodeLength = 64
)

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url too long (max %d characters)", MaxURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}

// validateAlias enforces ^[A-Za-z0-9_-]{1,32}$ on caller-chosen codes.
func validateAlias(alias string) error {
	if alias == "" {
		return errors.New("alias cannot be empty")
	}
	if len(alias) > MaxAliasLength {
		return fmt.Errorf("alias too long (maximum %d characters)", MaxAliasLength)
	}
	if !hasCodeChars(alias) {
		return errors.New("alias contains invalid characters (only alphanumeric, dash, and underscore allowed)")
	}
	return nil
}

// validCode reports whether code could have been produced by either the
// generator or an accepted alias.
func validCode(code string) bool {
	return code != "" && len(code) <= MaxCodeLength && hasCodeChars(code)
}

func hasCodeChars(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isCodeChar(s[i]) {
			return false
		}
	}
	return true
}

func isCodeChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
