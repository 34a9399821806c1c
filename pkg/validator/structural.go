package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

// NamePattern is the kebab-case form required of skill names.
var NamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

func structuralRules() []*ruleFunc {
	return []*ruleFunc{
		{id: RuleSkillMDExists, kind: Structural, needs: needsNothing, fn: checkSkillMDExists},
		{id: RuleFrontmatterValid, kind: Structural, needs: needsFile, fn: checkFrontmatterValid},
		requiredField(RuleFrontmatterName, "name"),
		requiredField(RuleFrontmatterDescription, "description"),
		requiredField(RuleFrontmatterVersion, "version"),
		{id: RuleNameKebabCase, kind: Structural, needs: needsFrontmatter, fn: checkNameKebabCase},
		{id: RuleReferencedFiles, kind: Structural, needs: needsContent, fn: checkReferencedFiles},
	}
}

func checkSkillMDExists(doc *skills.Document, _ *Listing) (report.Finding, error) {
	if !doc.Exists {
		return report.Fail(RuleSkillMDExists, "SKILL.md not found in skill directory"), nil
	}
	return report.Pass(RuleSkillMDExists, "SKILL.md found"), nil
}

func checkFrontmatterValid(doc *skills.Document, _ *Listing) (report.Finding, error) {
	switch {
	case doc.ReadErr != nil:
		return report.Fail(RuleFrontmatterValid, fmt.Sprintf("cannot read SKILL.md: %v", doc.ReadErr)), nil
	case doc.ParseErr != nil:
		return report.Fail(RuleFrontmatterValid, fmt.Sprintf("no valid YAML frontmatter: %v", doc.ParseErr)), nil
	default:
		return report.Pass(RuleFrontmatterValid, "YAML frontmatter parsed successfully"), nil
	}
}

func requiredField(id, field string) *ruleFunc {
	return &ruleFunc{
		id:    id,
		kind:  Structural,
		needs: needsFrontmatter,
		fn: func(doc *skills.Document, _ *Listing) (report.Finding, error) {
			if !doc.Frontmatter.Has(field) {
				return report.Fail(id, fmt.Sprintf("required field '%s' missing from frontmatter", field)), nil
			}
			return report.Pass(id, fmt.Sprintf("field '%s' present", field)), nil
		},
	}
}

func checkNameKebabCase(doc *skills.Document, _ *Listing) (report.Finding, error) {
	if !doc.Frontmatter.Has("name") {
		return report.Skip(RuleNameKebabCase, "name field missing"), nil
	}

	name := doc.Frontmatter.NameValue()
	if !NamePattern.MatchString(name) {
		return report.Fail(RuleNameKebabCase,
			fmt.Sprintf("name '%s' is not kebab-case (lowercase letters and digits separated by hyphens, starting with a letter)", name)), nil
	}
	return report.Pass(RuleNameKebabCase, fmt.Sprintf("name '%s' is valid kebab-case", name)), nil
}

func checkReferencedFiles(doc *skills.Document, _ *Listing) (report.Finding, error) {
	refs, missing := ResolveReferences(doc)

	switch {
	case len(missing) > 0:
		return report.Fail(RuleReferencedFiles, "referenced files not found: "+strings.Join(missing, ", ")), nil
	case len(refs) == 0:
		return report.Pass(RuleReferencedFiles, "no file references found"), nil
	default:
		return report.Pass(RuleReferencedFiles, fmt.Sprintf("all %d referenced files exist", len(refs))), nil
	}
}
