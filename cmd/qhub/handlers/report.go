package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/qhub/internal/config"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorAmber = lipgloss.Color("#f59e0b")
	colorDim   = lipgloss.Color("#6b7280")

	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	warnStyle = lipgloss.NewStyle().Foreground(colorAmber)
	pathStyle = lipgloss.NewStyle().Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// Report is the outcome of validating one document.
type Report struct {
	Location string         `json:"location"`
	Valid    bool           `json:"valid"`
	Error    string         `json:"error,omitempty"`
	Issues   []config.Issue `json:"issues,omitempty"`
	Warnings []config.Issue `json:"warnings,omitempty"`
}

func newReport(location string, cfg *config.Config, err error) *Report {
	r := &Report{Location: location}
	var verr *config.ValidationError
	switch {
	case err == nil:
		r.Valid = true
		r.Warnings = cfg.Warnings()
	case errors.As(err, &verr):
		r.Issues = verr.Issues
	default:
		r.Error = err.Error()
	}
	return r
}

// summary is the error text used by the linter message and plain output.
func (r *Report) summary() string {
	if r.Error != "" {
		return r.Error
	}
	return (&config.ValidationError{Issues: r.Issues}).Error()
}

func printReportJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func printReportPlain(w io.Writer, r *Report) {
	if r.Valid {
		fmt.Fprintf(w, "%s is valid\n", r.Location)
	} else {
		fmt.Fprintf(w, "%s is invalid: %s\n", r.Location, r.summary())
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func printReportStyled(w io.Writer, r *Report) {
	if r.Valid {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓"), r.Location)
	} else {
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗"), r.Location)
	}

	if r.Error != "" {
		fmt.Fprintf(w, "  %s\n", r.Error)
	}
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s\n", pathStyle.Render(displayPath(issue.Path)), issue.Message)
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(string(issue.Kind)))
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  %s %s: %s\n", warnStyle.Render("!"), displayPath(warning.Path), warning.Message)
	}
}

func displayPath(p string) string {
	if p == "" {
		return "(document)"
	}
	return p
}

// linterMessage renders the comment a CI linter posts on a pull request.
func linterMessage(r *Report) string {
	var b strings.Builder
	b.WriteString("This is an automatic response from the QHub linter.\n")
	if r.Valid {
		b.WriteString("I just wanted to let you know that I linted your `qhub-config.yaml` in your PR and I didn't find any\nproblems.\n")
		return b.String()
	}
	b.WriteString("I just wanted to let you know that I linted your `qhub-config.yaml` in your PR and found some errors:\n\n")
	b.WriteString(r.summary())
	b.WriteString("\n")
	return b.String()
}
