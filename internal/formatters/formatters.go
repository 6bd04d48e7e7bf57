package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeparser/internal/types"
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

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ParseResult", &ResultTextFormatter{})
	registry.RegisterFormatter("markdown", "ParseResult", &ResultMarkdownFormatter{})
	registry.RegisterFormatter("text", "QualityReport", &QualityTextFormatter{})
	registry.RegisterFormatter("markdown", "QualityReport", &QualityMarkdownFormatter{})

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

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
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
	case types.ParseResult:
		return "ParseResult"
	case types.QualityReport:
		return "QualityReport"
	default:
		return "any"
	}
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

// section pairs a display title with extracted entries
type section struct {
	title   string
	entries []string
}

func sectionsOf(r types.ParsedResume) []section {
	return []section{
		{"Education", r.Education},
		{"Experience", r.Experience},
		{"Projects", r.Projects},
		{"Skills", r.Skills.Items()},
		{"Certifications", r.Certifications},
		{"Achievements", r.Achievements},
	}
}

func contactLines(c types.ContactInfo) []string {
	var lines []string
	for _, f := range []struct{ label, value string }{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"LinkedIn", c.LinkedIn},
		{"GitHub", c.GitHub},
	} {
		if f.value != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.label, f.value))
		}
	}
	return lines
}

// ResultTextFormatter handles text formatting for parse results
type ResultTextFormatter struct{}

func (rtf *ResultTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseResult)
	if !ok {
		return "", fmt.Errorf("expected ParseResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PARSED RESUME ===\n")
	if doc := result.Document; doc != nil {
		output.WriteString(fmt.Sprintf("Source: %s (%s, %d characters)\n", doc.Filename, doc.Format, doc.Characters))
	}
	meta := result.Resume.Metadata
	output.WriteString(fmt.Sprintf("Strategy: %s, %d lines\n\n", meta.Strategy, meta.TotalLines))

	output.WriteString("=== CONTACT ===\n")
	if lines := contactLines(result.Resume.Contact); len(lines) > 0 {
		output.WriteString(strings.Join(lines, "\n"))
		output.WriteString("\n\n")
	} else {
		output.WriteString("No contact information found.\n\n")
	}

	for _, s := range sectionsOf(result.Resume) {
		output.WriteString(fmt.Sprintf("=== %s ===\n", strings.ToUpper(s.title)))
		if len(s.entries) == 0 {
			output.WriteString("(none)\n\n")
			continue
		}
		for _, entry := range s.entries {
			output.WriteString(fmt.Sprintf("- %s\n", entry))
		}
		output.WriteString("\n")
	}

	quality, _ := (&QualityTextFormatter{}).Format(result.Quality)
	output.WriteString(quality)

	return output.String(), nil
}

func (rtf *ResultTextFormatter) SupportedType() string {
	return "ParseResult"
}

// ResultMarkdownFormatter handles markdown formatting for parse results
type ResultMarkdownFormatter struct{}

func (rmf *ResultMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ParseResult)
	if !ok {
		return "", fmt.Errorf("expected ParseResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Parsed Resume\n\n")
	if doc := result.Document; doc != nil {
		output.WriteString(fmt.Sprintf("**Source:** %s (%s, %d characters)\n\n", doc.Filename, doc.Format, doc.Characters))
	}
	output.WriteString(fmt.Sprintf("**Strategy:** %s\n\n", result.Resume.Metadata.Strategy))

	output.WriteString("## Contact\n\n")
	if lines := contactLines(result.Resume.Contact); len(lines) > 0 {
		for _, line := range lines {
			output.WriteString(fmt.Sprintf("- %s\n", line))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("_No contact information found._\n\n")
	}

	for _, s := range sectionsOf(result.Resume) {
		output.WriteString(fmt.Sprintf("## %s\n\n", s.title))
		if len(s.entries) == 0 {
			output.WriteString("_None found._\n\n")
			continue
		}
		for _, entry := range s.entries {
			output.WriteString(fmt.Sprintf("- %s\n", entry))
		}
		output.WriteString("\n")
	}

	quality, _ := (&QualityMarkdownFormatter{heading: "##"}).Format(result.Quality)
	output.WriteString(quality)

	return output.String(), nil
}

func (rmf *ResultMarkdownFormatter) SupportedType() string {
	return "ParseResult"
}

// QualityTextFormatter handles text formatting for quality reports
type QualityTextFormatter struct{}

func (qtf *QualityTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.QualityReport)
	if !ok {
		return "", fmt.Errorf("expected QualityReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== QUALITY ===\n")
	output.WriteString(fmt.Sprintf("Completeness Score: %d/100\n\n", report.CompletenessScore))
	writeList(&output, "Strengths:\n", "- ", report.Strengths)
	writeList(&output, "Missing Sections:\n", "- ", report.MissingSections)
	writeList(&output, "Recommendations:\n", "- ", report.Recommendations)

	return output.String(), nil
}

func (qtf *QualityTextFormatter) SupportedType() string {
	return "QualityReport"
}

// QualityMarkdownFormatter handles markdown formatting for quality reports.
// heading is the level used for the report title; the default is "#".
type QualityMarkdownFormatter struct {
	heading string
}

func (qmf *QualityMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.QualityReport)
	if !ok {
		return "", fmt.Errorf("expected QualityReport, got %T", data)
	}

	heading := qmf.heading
	if heading == "" {
		heading = "#"
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("%s Resume Quality\n\n", heading))
	output.WriteString(fmt.Sprintf("**Completeness Score:** %d/100\n\n", report.CompletenessScore))
	writeList(&output, heading+"# Strengths\n\n", "- ", report.Strengths)
	writeList(&output, heading+"# Missing Sections\n\n", "- ", report.MissingSections)
	writeList(&output, heading+"# Recommendations\n\n", "- ", report.Recommendations)

	return output.String(), nil
}

func (qmf *QualityMarkdownFormatter) SupportedType() string {
	return "QualityReport"
}

func writeList(output *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title)
	for _, item := range items {
		output.WriteString(bullet)
		output.WriteString(item)
		output.WriteString("\n")
	}
	output.WriteString("\n")
}
