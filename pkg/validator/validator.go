// Package validator checks a skill directory against a fixed, ordered
// catalogue of structural and heuristic rules and produces a report with
// exactly one finding per rule.
package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jingkaihe/skillcheck/pkg/logger"
	"github.com/jingkaihe/skillcheck/pkg/report"
	"github.com/jingkaihe/skillcheck/pkg/skills"
)

// Default thresholds.
const (
	DefaultBodyLinesWarn = 200
	DefaultBodyLinesFail = 500
	DefaultMinTriggers   = 2
)

// Validator runs the rule catalogue. It holds no per-run state and is safe
// for concurrent use.
type Validator struct {
	bodyLinesWarn int
	bodyLinesFail int
	minTriggers   int
	concurrency   int
	disabled      []glob.Glob
	rules         []*ruleFunc
}

// Option is a function that configures a Validator
type Option func(*Validator) error

// WithBodyLineLimits sets the body length above which the body-line-count
// rule warns and fails.
func WithBodyLineLimits(warn, fail int) Option {
	return func(v *Validator) error {
		if warn <= 0 || fail <= 0 {
			return errors.Errorf("body line limits must be positive, got warn=%d fail=%d", warn, fail)
		}
		if warn > fail {
			return errors.Errorf("body line warn limit %d exceeds fail limit %d", warn, fail)
		}
		v.bodyLinesWarn = warn
		v.bodyLinesFail = fail
		return nil
	}
}

// WithMinTriggers sets how many trigger phrases a skill should declare.
func WithMinTriggers(n int) Option {
	return func(v *Validator) error {
		if n < 0 {
			return errors.Errorf("minimum trigger count cannot be negative: %d", n)
		}
		v.minTriggers = n
		return nil
	}
}

// WithDisabledRules disables every rule whose id matches one of the glob
// patterns, e.g. "tests-present" or "name-*". Disabled rules are reported
// as skipped.
func WithDisabledRules(patterns ...string) Option {
	return func(v *Validator) error {
		for _, p := range patterns {
			g, err := glob.Compile(p)
			if err != nil {
				return errors.Wrapf(err, "invalid rule pattern %q", p)
			}
			v.disabled = append(v.disabled, g)
		}
		return nil
	}
}

// WithConcurrency bounds how many directories ValidateAll checks at once.
func WithConcurrency(n int) Option {
	return func(v *Validator) error {
		if n <= 0 {
			return errors.Errorf("concurrency must be positive, got %d", n)
		}
		v.concurrency = n
		return nil
	}
}

// New creates a validator with the default thresholds, adjusted by opts.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		bodyLinesWarn: DefaultBodyLinesWarn,
		bodyLinesFail: DefaultBodyLinesFail,
		minTriggers:   DefaultMinTriggers,
		concurrency:   runtime.NumCPU(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.Wrap(err, "failed to apply validator option")
		}
	}

	v.rules = append(structuralRules(), v.heuristicRules()...)
	return v, nil
}

// Rules returns the catalogue in evaluation order.
func (v *Validator) Rules() []Rule {
	rules := make([]Rule, len(v.rules))
	for i, r := range v.rules {
		rules[i] = r
	}
	return rules
}

// RuleIDs returns the catalogue rule ids in evaluation order.
func RuleIDs() []string {
	v := &Validator{}
	all := append(structuralRules(), v.heuristicRules()...)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.id
	}
	return ids
}

func (v *Validator) isDisabled(id string) bool {
	for _, g := range v.disabled {
		if g.Match(id) {
			return true
		}
	}
	return false
}

// Validate checks one skill directory. It always returns a complete report:
// problems reaching the directory become a directory-access finding and
// rule errors become FAIL findings for that rule.
func (v *Validator) Validate(ctx context.Context, dir string) *report.Report {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log := logger.G(ctx).WithField("skill_dir", dir)
	log.Debug("validating skill")

	name := filepath.Base(dir)
	findings := make([]report.Finding, 0, len(v.rules)+1)

	if err := checkDirectory(dir); err != nil {
		log.WithError(err).Debug("skill directory is not accessible")
		findings = append(findings, report.Fail(RuleDirectoryAccess, err.Error()))
		for _, r := range v.rules {
			findings = append(findings, report.Skip(r.id, "skill directory is not accessible"))
		}
		return report.New(name, dir, findings)
	}

	doc := skills.Load(dir)
	listing := NewListing(dir)

	for _, r := range v.rules {
		f := v.evaluate(r, doc, listing)
		log.WithField("rule", f.RuleID).WithField("level", f.Level).Debug(f.Message)
		findings = append(findings, f)
	}

	return report.New(name, dir, findings)
}

// evaluate runs one rule, converting errors and panics into a FAIL finding.
func (v *Validator) evaluate(r *ruleFunc, doc *skills.Document, listing *Listing) (f report.Finding) {
	if v.isDisabled(r.id) {
		return report.Skip(r.id, "disabled by configuration")
	}
	if reason := r.skipReason(doc); reason != "" {
		return report.Skip(r.id, reason)
	}

	defer func() {
		if p := recover(); p != nil {
			f = report.Fail(r.id, fmt.Sprintf("rule could not be evaluated: %v", p))
		}
	}()

	f, err := r.Evaluate(doc, listing)
	if err != nil {
		return report.Fail(r.id, fmt.Sprintf("rule could not be evaluated: %v", err))
	}
	f.RuleID = r.id
	return f
}

func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("directory %s does not exist", dir)
		}
		return errors.Wrapf(err, "cannot access %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	if _, err := os.ReadDir(dir); err != nil {
		return errors.Wrapf(err, "cannot read directory %s", dir)
	}
	return nil
}

// ValidateAll finds every skill directory below root and validates them
// concurrently. Reports are returned sorted by directory.
func (v *Validator) ValidateAll(ctx context.Context, root string) ([]*report.Report, error) {
	dirs, err := skills.FindSkillDirs(root)
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("root", root).WithField("skills", len(dirs)).Debug("validating skills")

	reports := make([]*report.Report, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = v.Validate(gctx, dir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "validation interrupted")
	}
	return reports, nil
}
