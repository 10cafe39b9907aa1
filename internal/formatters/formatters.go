package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumescan/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "KeywordReport", &KeywordTextFormatter{})
	registry.RegisterFormatter("markdown", "KeywordReport", &KeywordMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, *types.AnalysisResult:
		return "AnalysisResult"
	case types.KeywordReport, *types.KeywordReport:
		return "KeywordReport"
	default:
		return "any"
	}
}

// asAnalysisResult unwraps either value or pointer form
func asAnalysisResult(data any) (types.AnalysisResult, bool) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return v, true
	case *types.AnalysisResult:
		if v != nil {
			return *v, true
		}
	}
	return types.AnalysisResult{}, false
}

func asKeywordReport(data any) (types.KeywordReport, bool) {
	switch v := data.(type) {
	case types.KeywordReport:
		return v, true
	case *types.KeywordReport:
		if v != nil {
			return *v, true
		}
	}
	return types.KeywordReport{}, false
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// categoryLabels maps breakdown keys to display headings
var categoryLabels = map[string]string{
	types.CategoryPersonalInfo: "Personal Info",
	types.CategoryExperience:   "Experience",
	types.CategoryEducation:    "Education",
	types.CategorySkills:       "Skills",
	types.CategoryStructure:    "Structure",
	types.CategoryAchievements: "Achievements",
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := asAnalysisResult(data)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPATIBILITY REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Score: %d/100\n", result.ATSScore))
	if result.MatchPercentage != nil {
		output.WriteString(fmt.Sprintf("Job Match: %d%%\n", *result.MatchPercentage))
	}
	output.WriteString("\n")

	output.WriteString("=== CATEGORY BREAKDOWN ===\n")
	for _, key := range types.CategoryKeys {
		cat, exists := result.Breakdown[key]
		if !exists {
			continue
		}
		output.WriteString(fmt.Sprintf("%s: %d/%d\n", categoryLabels[key], cat.Score, cat.MaxScore))
		for _, detail := range cat.Details {
			output.WriteString(fmt.Sprintf("  - %s\n", detail))
		}
	}
	output.WriteString("\n")

	if len(result.MissingSkills) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Strengths) > 0 {
		output.WriteString("=== STRENGTHS ===\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, strings.ToUpper(suggestion.Priority), suggestion.Suggestion))
			output.WriteString(fmt.Sprintf("   Category: %s, Impact: +%d\n", suggestion.Category, suggestion.Impact))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asAnalysisResult(data)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compatibility Report\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", result.ATSScore))
	if result.MatchPercentage != nil {
		output.WriteString(fmt.Sprintf("**Job Match:** %d%%\n\n", *result.MatchPercentage))
	}

	output.WriteString("## Category Breakdown\n\n")
	output.WriteString("| Category | Score | Max |\n")
	output.WriteString("|----------|-------|-----|\n")
	for _, key := range types.CategoryKeys {
		cat, exists := result.Breakdown[key]
		if !exists {
			continue
		}
		output.WriteString(fmt.Sprintf("| %s | %d | %d |\n", categoryLabels[key], cat.Score, cat.MaxScore))
	}
	output.WriteString("\n")

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for _, recommendation := range result.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", recommendation))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. **[%s]** %s (%s, impact +%d)\n",
				i+1, strings.ToUpper(suggestion.Priority), suggestion.Suggestion, suggestion.Category, suggestion.Impact))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// KeywordTextFormatter handles text formatting for keyword reports
type KeywordTextFormatter struct{}

func (ktf *KeywordTextFormatter) Format(data any) (string, error) {
	report, ok := asKeywordReport(data)
	if !ok {
		return "", fmt.Errorf("expected KeywordReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== KEYWORDS (%d) ===\n", report.Count))
	for _, keyword := range report.Keywords {
		output.WriteString(fmt.Sprintf("- %s\n", keyword))
	}

	return output.String(), nil
}

func (ktf *KeywordTextFormatter) SupportedType() string {
	return "KeywordReport"
}

// KeywordMarkdownFormatter handles markdown formatting for keyword reports
type KeywordMarkdownFormatter struct{}

func (kmf *KeywordMarkdownFormatter) Format(data any) (string, error) {
	report, ok := asKeywordReport(data)
	if !ok {
		return "", fmt.Errorf("expected KeywordReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Keywords\n\n")
	output.WriteString(fmt.Sprintf("**Source:** %s\n\n", report.Source))
	output.WriteString(fmt.Sprintf("**Count:** %d\n\n", report.Count))
	for _, keyword := range report.Keywords {
		output.WriteString(fmt.Sprintf("- %s\n", keyword))
	}

	return output.String(), nil
}

func (kmf *KeywordMarkdownFormatter) SupportedType() string {
	return "KeywordReport"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
