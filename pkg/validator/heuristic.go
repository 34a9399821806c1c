package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

const maxReportedLines = 3

var (
	secondPersonOpening = regexp.MustCompile(`(?i)^\s*(you|your|yours|yourself)\b`)
	secondPersonWord    = regexp.MustCompile(`(?i)\b(you|your|yours|you're|you'll|you've|you'd|yourself|yourselves)\b`)
	indirectAgency      = regexp.MustCompile(`(?i)\b(the agent should|claude should|it should|the skill should)\b`)

	comparisonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[❌✅✔✖]`),
		regexp.MustCompile(`(?im)^\s*[-*+]\s*\**\s*(good|bad|do|don't|correct|incorrect|right|wrong)\s*\**\s*:`),
	}
)

func (v *Validator) heuristicRules() []*ruleFunc {
	return []*ruleFunc{
		{id: RuleNameMatchesDir, kind: Heuristic, needs: needsFrontmatter, fn: checkNameMatchesDir},
		{id: RuleDescriptionThirdPerson, kind: Heuristic, needs: needsFrontmatter, fn: checkDescriptionThirdPerson},
		{id: RuleTriggerPhrases, kind: Heuristic, needs: needsFrontmatter, fn: v.checkTriggerPhrases},
		{id: RuleBodyLineCount, kind: Heuristic, needs: needsFrontmatter, fn: v.checkBodyLineCount},
		{id: RuleNoSecondPerson, kind: Heuristic, needs: needsFrontmatter, fn: checkNoSecondPerson},
		{id: RuleImperativeForm, kind: Heuristic, needs: needsFrontmatter, fn: checkImperativeForm},
		{id: RuleNoComparisonPatterns, kind: Heuristic, needs: needsFrontmatter, fn: checkNoComparisonPatterns},
		{id: RuleTestsPresent, kind: Heuristic, needs: needsFrontmatter, fn: checkTestsPresent},
	}
}

func checkNameMatchesDir(doc *skills.Document, _ *Listing) (report.Finding, error) {
	name := doc.Frontmatter.NameValue()
	if name == "" {
		return report.Skip(RuleNameMatchesDir, "name field missing"), nil
	}

	dir := filepath.Base(doc.Dir)
	if name != dir {
		return report.Warn(RuleNameMatchesDir, fmt.Sprintf("frontmatter name '%s' differs from directory '%s'", name, dir)), nil
	}
	return report.Pass(RuleNameMatchesDir, "frontmatter name matches directory name"), nil
}

func checkDescriptionThirdPerson(doc *skills.Document, _ *Listing) (report.Finding, error) {
	if !doc.Frontmatter.Has("description") {
		return report.Skip(RuleDescriptionThirdPerson, "description field missing"), nil
	}

	if m := secondPersonOpening.FindStringSubmatch(doc.Frontmatter.DescriptionValue()); m != nil {
		return report.Warn(RuleDescriptionThirdPerson,
			fmt.Sprintf("description starts with '%s'; prefer third person ('Creates...', 'Provides...')", m[1])), nil
	}
	return report.Pass(RuleDescriptionThirdPerson, "description avoids a second-person opening"), nil
}

func (v *Validator) checkTriggerPhrases(doc *skills.Document, _ *Listing) (report.Finding, error) {
	n := len(doc.Frontmatter.Triggers())

	switch {
	case n >= v.minTriggers:
		return report.Pass(RuleTriggerPhrases, fmt.Sprintf("found %d trigger phrases", n)), nil
	case n == 0:
		return report.Warn(RuleTriggerPhrases, "no trigger phrases found in frontmatter"), nil
	default:
		return report.Warn(RuleTriggerPhrases,
			fmt.Sprintf("only %d trigger phrase(s), add at least %d for discoverability", n, v.minTriggers)), nil
	}
}

func (v *Validator) checkBodyLineCount(doc *skills.Document, _ *Listing) (report.Finding, error) {
	n := len(doc.BodyLines())

	switch {
	case n > v.bodyLinesFail:
		return report.Fail(RuleBodyLineCount, fmt.Sprintf("body is %d lines, must be at most %d", n, v.bodyLinesFail)), nil
	case n > v.bodyLinesWarn:
		return report.Warn(RuleBodyLineCount,
			fmt.Sprintf("body is %d lines, consider moving detail into references (limit %d)", n, v.bodyLinesWarn)), nil
	default:
		return report.Pass(RuleBodyLineCount, fmt.Sprintf("body is %d lines", n)), nil
	}
}

func checkNoSecondPerson(doc *skills.Document, _ *Listing) (report.Finding, error) {
	var found []int
	for i, line := range strings.Split(doc.Body, "\n") {
		lineNo := doc.BodyStartLine + i
		if doc.Outline != nil && doc.Outline.Excluded(lineNo) {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if secondPersonWord.MatchString(line) {
			found = append(found, lineNo)
		}
	}

	if len(found) > 0 {
		return report.Warn(RuleNoSecondPerson, "second-person language found on "+describeLines(found)), nil
	}
	return report.Pass(RuleNoSecondPerson, "no second-person language in body"), nil
}

func checkImperativeForm(doc *skills.Document, _ *Listing) (report.Finding, error) {
	var found []int
	for i, line := range strings.Split(doc.Body, "\n") {
		if indirectAgency.MatchString(line) {
			found = append(found, doc.BodyStartLine+i)
		}
	}

	if len(found) > 0 {
		return report.Warn(RuleImperativeForm,
			"non-imperative phrasing found on "+describeLines(found)+"; prefer 'Read the file' over 'The agent should read the file'"), nil
	}
	return report.Pass(RuleImperativeForm, "instructions use imperative form"), nil
}

func checkNoComparisonPatterns(_ *skills.Document, listing *Listing) (report.Finding, error) {
	files, err := listing.Match("**/*.md")
	if err != nil {
		return report.Finding{}, err
	}

	var flagged []string
	for _, name := range files {
		content, err := listing.ReadFile(name)
		if err != nil {
			return report.Finding{}, err
		}
		for _, pattern := range comparisonPatterns {
			if pattern.Match(content) {
				flagged = append(flagged, name)
				break
			}
		}
	}

	if len(flagged) > 0 {
		return report.Warn(RuleNoComparisonPatterns, "good/bad comparison patterns found in: "+strings.Join(flagged, ", ")), nil
	}
	return report.Pass(RuleNoComparisonPatterns, "no good/bad comparison patterns detected"), nil
}

func checkTestsPresent(_ *skills.Document, listing *Listing) (report.Finding, error) {
	files, err := listing.Match("tests/test_*.{yaml,yml}")
	if err != nil {
		return report.Finding{}, err
	}

	if len(files) == 0 {
		return report.Warn(RuleTestsPresent, "no test scenarios found (expected tests/test_*.yaml)"), nil
	}
	return report.Pass(RuleTestsPresent, fmt.Sprintf("found %d test scenario file(s)", len(files))), nil
}

// describeLines renders "lines 3, 8, 12" or "lines 3, 8, 12 and 4 more".
func describeLines(lines []int) string {
	shown := lines
	if len(shown) > maxReportedLines {
		shown = shown[:maxReportedLines]
	}

	parts := make([]string, len(shown))
	for i, n := range shown {
		parts[i] = strconv.Itoa(n)
	}

	word := "lines "
	if len(lines) == 1 {
		word = "line "
	}
	out := word + strings.Join(parts, ", ")
	if extra := len(lines) - len(shown); extra > 0 {
		out += fmt.Sprintf(" and %d more", extra)
	}
	return out
}
