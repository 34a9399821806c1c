package validator

import (
	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

// Rule identifiers, in catalogue order.
const (
	RuleDirectoryAccess = "directory-access"

	RuleSkillMDExists          = "skill-md-exists"
	RuleFrontmatterValid       = "frontmatter-valid"
	RuleFrontmatterName        = "frontmatter-name"
	RuleFrontmatterDescription = "frontmatter-description"
	RuleFrontmatterVersion     = "frontmatter-version"
	RuleNameKebabCase          = "name-kebab-case"
	RuleReferencedFiles        = "referenced-files"

	RuleNameMatchesDir         = "name-matches-dir"
	RuleDescriptionThirdPerson = "description-third-person"
	RuleTriggerPhrases         = "trigger-phrases"
	RuleBodyLineCount          = "body-line-count"
	RuleNoSecondPerson         = "no-second-person"
	RuleImperativeForm         = "imperative-form"
	RuleNoComparisonPatterns   = "no-comparison-patterns"
	RuleTestsPresent           = "tests-present"
)

// Kind separates correctness checks from style checks.
type Kind int

const (
	// Structural rules fail when violated.
	Structural Kind = iota
	// Heuristic rules warn when violated.
	Heuristic
)

func (k Kind) String() string {
	if k == Structural {
		return "structural"
	}
	return "heuristic"
}

// requirement is what a rule needs from the document before it can run.
type requirement int

const (
	needsNothing     requirement = iota
	needsFile                    // SKILL.md exists
	needsContent                 // SKILL.md exists and was read
	needsFrontmatter             // frontmatter parsed
)

// Rule is a single named check. Evaluate must not modify its arguments.
type Rule interface {
	ID() string
	Kind() Kind
	Evaluate(doc *skills.Document, listing *Listing) (report.Finding, error)
}

type ruleFunc struct {
	id    string
	kind  Kind
	needs requirement
	fn    func(doc *skills.Document, listing *Listing) (report.Finding, error)
}

func (r *ruleFunc) ID() string { return r.id }

func (r *ruleFunc) Kind() Kind { return r.kind }

func (r *ruleFunc) Evaluate(doc *skills.Document, listing *Listing) (report.Finding, error) {
	return r.fn(doc, listing)
}

// skipReason explains why a rule cannot apply to doc, or returns "".
func (r *ruleFunc) skipReason(doc *skills.Document) string {
	if r.needs >= needsFile && !doc.Exists {
		return "SKILL.md not found"
	}
	if r.needs >= needsContent && doc.ReadErr != nil {
		return "SKILL.md could not be read"
	}
	if r.needs >= needsFrontmatter && !doc.Parsed() {
		return "frontmatter invalid"
	}
	return ""
}
