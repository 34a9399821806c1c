package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// TextOptions controls console rendering.
type TextOptions struct {
	Color      bool
	HidePassed bool // omit PASS findings, the summary still counts them
}

var levelOrder = []Level{LevelFail, LevelWarn, LevelPass}

var markers = map[Level]string{
	LevelPass: "+",
	LevelWarn: "~",
	LevelFail: "!",
}

func levelColor(level Level, enabled bool) *color.Color {
	var c *color.Color
	switch level {
	case LevelFail:
		c = color.New(color.FgRed, color.Bold)
	case LevelWarn:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgGreen)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// RenderText writes a human-readable report with findings grouped by level.
func RenderText(w io.Writer, r *Report, opts TextOptions) error {
	header := color.New(color.Bold)
	if !opts.Color {
		header.DisableColor()
	} else {
		header.EnableColor()
	}

	if _, err := header.Fprintf(w, "Validating skill: %s\n", r.Skill); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	fmt.Fprintf(w, "  Path: %s\n\n", r.Path)

	for _, level := range levelOrder {
		if level == LevelPass && opts.HidePassed {
			continue
		}
		c := levelColor(level, opts.Color)
		for _, f := range r.ByLevel(level) {
			c.Fprintf(w, "  [%s] %-4s", markers[level], level)
			fmt.Fprintf(w, "  %s: %s\n", f.RuleID, f.Message)
		}
	}

	counts := r.Counts()
	fmt.Fprintf(w, "\n  Summary: %d passed, %d warnings, %d failures\n", counts.Pass, counts.Warn, counts.Fail)

	overall := r.Overall()
	fmt.Fprint(w, "  Result: ")
	_, err := levelColor(overall, opts.Color).Fprintf(w, "%s\n", overall)
	return errors.Wrap(err, "failed to write report")
}

// RenderSummary writes one table row per report, for multi-skill runs.
func RenderSummary(w io.Writer, reports []*Report, opts TextOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tRESULT\tPASS\tWARN\tFAIL\tPATH")
	for _, r := range reports {
		counts := r.Counts()
		overall := r.Overall()
		result := levelColor(overall, opts.Color).Sprint(overall)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", r.Skill, result, counts.Pass, counts.Warn, counts.Fail, r.Path)
	}
	return errors.Wrap(tw.Flush(), "failed to write summary")
}

type jsonReport struct {
	*Report
	Overall Level  `json:"overall"`
	Counts  Counts `json:"counts"`
}

type jsonDocument struct {
	Overall Level        `json:"overall"`
	Reports []jsonReport `json:"reports"`
}

// RenderJSON writes the reports as an indented JSON document.
func RenderJSON(w io.Writer, reports []*Report) error {
	doc := jsonDocument{
		Overall: LevelPass,
		Reports: make([]jsonReport, 0, len(reports)),
	}
	for _, r := range reports {
		overall := r.Overall()
		if overall > doc.Overall {
			doc.Overall = overall
		}
		doc.Reports = append(doc.Reports, jsonReport{Report: r, Overall: overall, Counts: r.Counts()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "failed to encode report")
}
