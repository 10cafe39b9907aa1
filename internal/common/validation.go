package common

import (
	"fmt"
	"strings"
)

// ResolveOutputFormat returns the format a command should use: the flag value
// lowercased, or the configured default when the flag was not set.
func ResolveOutputFormat(format, defaultFormat string) string {
	if format == "" {
		return defaultFormat
	}
	return strings.ToLower(format)
}

// ValidateOutputFormat checks format against the configured formats. An empty
// supported list means no restriction.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	for _, supported := range supportedFormats {
		if strings.EqualFold(supported, format) {
			return nil
		}
	}

	return fmt.Errorf("unsupported output format %q (supported: %s)",
		format, strings.Join(supportedFormats, ", "))
}
