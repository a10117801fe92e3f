package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/speedo/internal/config"
	"github.com/rileyhilliard/speedo/internal/doctor"
	"github.com/rileyhilliard/speedo/internal/ui"
)

var (
	doctorJSON      bool
	doctorFix       bool
	doctorLinkFlags LinkFlags
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	AddLinkFlags(doctorCmd, &doctorLinkFlags)
}

// categoryOrder is the order categories appear in the report.
var categoryOrder = []string{"CONFIG", "LINK", "SSH", "STATE"}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, w io.Writer) error {
	checks := collectChecks(cfgFile, doctorLinkFlags)

	results := doctor.RunAll(ctx, checks)

	if doctorFix {
		results = attemptFixes(ctx, checks, results)
	}

	if doctorJSON {
		return outputDoctorJSON(w, checks, results)
	}
	return outputDoctorText(w, checks, results)
}

// collectChecks builds the check list. A config that fails to load still
// gets checked against defaults; the config checks report the load error.
func collectChecks(explicit string, lf LinkFlags) []doctor.Check {
	cfg, _, err := config.LoadOrDefault(explicit)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	lf.Apply(&cfg.Link)
	return doctor.NewChecks(cfg, explicit)
}

// attemptFixes tries to fix issues where possible.
func attemptFixes(ctx context.Context, checks []doctor.Check, results []doctor.CheckResult) []doctor.CheckResult {
	for i, result := range results {
		if result.Fixable && (result.Status == doctor.StatusFail || result.Status == doctor.StatusWarn) {
			if err := checks[i].Fix(); err == nil {
				// Re-run the check to see if it's fixed
				results[i] = checks[i].Run(ctx)
			}
		}
	}
	return results
}

// groupResults buckets results by their check's category in report order.
// Categories not in categoryOrder follow in first-seen order.
func groupResults(checks []doctor.Check, results []doctor.CheckResult) []CategoryOutput {
	grouped := make(map[string][]doctor.CheckResult)
	var seen []string
	for i, check := range checks {
		cat := check.Category()
		if _, ok := grouped[cat]; !ok {
			seen = append(seen, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	var out []CategoryOutput
	known := make(map[string]bool, len(categoryOrder))
	for _, cat := range categoryOrder {
		known[cat] = true
		if rs, ok := grouped[cat]; ok {
			out = append(out, CategoryOutput{Name: cat, Results: rs})
		}
	}
	for _, cat := range seen {
		if !known[cat] {
			out = append(out, CategoryOutput{Name: cat, Results: grouped[cat]})
		}
	}
	return out
}

func summarize(results []doctor.CheckResult) SummaryOutput {
	counts := doctor.CountByStatus(results)
	return SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	output := DoctorOutput{
		Categories: groupResults(checks, results),
		Summary:    summarize(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	headerStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := ui.MutedStyle()

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("speedo Diagnostic Report"))
	fmt.Fprintln(w)

	var rows []ui.DoctorCheckRow
	for _, cat := range groupResults(checks, results) {
		for _, r := range cat.Results {
			rows = append(rows, ui.DoctorCheckRow{
				Status:     r.Status.String(),
				Category:   cat.Name,
				Message:    r.Message,
				Suggestion: r.Suggestion,
			})
		}
	}
	fmt.Fprint(w, ui.RenderDoctorTable(rows))

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	summary := summarize(results)
	if summary.AllClear {
		fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), doctor.Summary(results))

		if summary.Fixable > 0 && !doctorFix {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}

	fmt.Fprintln(w)
	return nil
}

// pluralSuffix returns "s" if n != 1.
func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
