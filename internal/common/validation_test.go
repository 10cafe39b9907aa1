package common

import (
	"testing"
)

func TestResolveOutputFormat(t *testing.T) {
	tests := []struct {
		name          string
		format        string
		defaultFormat string
		expected      string
	}{
		{name: "flag set", format: "json", defaultFormat: "text", expected: "json"},
		{name: "flag unset falls back to default", format: "", defaultFormat: "text", expected: "text"},
		{name: "flag lowercased", format: "Markdown", defaultFormat: "text", expected: "markdown"},
		{name: "both empty", format: "", defaultFormat: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOutputFormat(tt.format, tt.defaultFormat)
			if got != tt.expected {
				t.Errorf("ResolveOutputFormat(%q, %q) = %q, want %q",
					tt.format, tt.defaultFormat, got, tt.expected)
			}
		})
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
		expectedError    string
	}{
		{
			name:             "valid format - json",
			format:           "json",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      false,
		},
		{
			name:             "valid format - markdown",
			format:           "markdown",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      false,
		},
		{
			name:             "invalid format - xml",
			format:           "xml",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      true,
			expectedError:    `unsupported output format "xml" (supported: json, text, markdown)`,
		},
		{
			name:             "case insensitive - JSON uppercase",
			format:           "JSON",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      false,
		},
		{
			name:             "empty format string",
			format:           "",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      true,
			expectedError:    `unsupported output format "" (supported: json, text, markdown)`,
		},
		{
			name:             "empty supported formats - should allow all",
			format:           "xml",
			supportedFormats: []string{},
			expectError:      false,
		},
		{
			name:             "single supported format - invalid",
			format:           "text",
			supportedFormats: []string{"json"},
			expectError:      true,
			expectedError:    `unsupported output format "text" (supported: json)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
					return
				}
				if tt.expectedError != "" && err.Error() != tt.expectedError {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedError, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}
