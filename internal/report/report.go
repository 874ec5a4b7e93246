// Package report renders the habit report in PDF, JSON, YAML and text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/hbt/internal/model"
)

// Title heads every rendered report.
const Title = "Habit Tracker Report"

// Format is an output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// Formats lists the supported formats.
var Formats = []Format{FormatPDF, FormatJSON, FormatYAML, FormatText}

// ParseFormat accepts a format name, case-insensitive. "yml" and "txt" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", &model.ValidationError{Field: "format", Value: s, Reason: "want pdf, json, yaml or text"}
}

// Filename is the default download name, e.g. habit_report.pdf.
func (f Format) Filename() string {
	ext := string(f)
	if f == FormatText {
		ext = "txt"
	}
	return "habit_report." + ext
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Report is everything an export contains.
type Report struct {
	GeneratedAt time.Time             `json:"generated_at" yaml:"generated_at"`
	Profile     model.Profile         `json:"profile" yaml:"profile"`
	Totals      []model.HabitTotal    `json:"habits" yaml:"habits"`
	Dashboard   *model.DashboardStats `json:"dashboard,omitempty" yaml:"dashboard,omitempty"`
}

// Line is the one-line summary of a habit used by the PDF and text output.
func Line(t model.HabitTotal) string {
	return fmt.Sprintf("Habit: %s | Monthly Goal: %d | Total completions: %d", t.Habit.Name, t.Habit.Goal, t.Completions)
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatPDF:
		return writePDF(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return writeText(w, r)
	}
	return &model.ValidationError{Field: "format", Value: string(f), Reason: "unsupported"}
}

func writeText(w io.Writer, r Report) error {
	var b strings.Builder
	b.WriteString(Title + "\n")
	fmt.Fprintf(&b, "Generated %s for %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"), r.Profile.Name)
	if len(r.Totals) == 0 {
		b.WriteString("No habits yet.\n")
	}
	for _, t := range r.Totals {
		b.WriteString(Line(t) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
