// Package validate audits parse results for annotation completeness and
// correctness. Rules are pure functions over the ParseResult shape; issues
// are advisory and never block storage.
package validate

import (
	"fmt"

	"github.com/knowgraph/knowgraph/internal/model"
)

// Rule inspects a parse result and reports issues. Rules must be
// order-independent: the engine concatenates issues without short-circuiting.
type Rule interface {
	Name() string
	Evaluate(res *model.ParseResult) []model.ValidationIssue
}

// Engine applies a fixed list of rules to parse results.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine from the given rules.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultEngine returns the baseline rule set: required fields at warning
// severity and status membership over the default status enumeration.
func DefaultEngine() *Engine {
	return NewEngine(
		&RequiredFieldsRule{Fields: DefaultRequiredFields(), Severity: model.SeverityWarning},
		&StatusRule{Allowed: DefaultStatuses()},
	)
}

// DefaultRequiredFields lists the annotation fields expected on every entity.
func DefaultRequiredFields() []string {
	return []string{"description", "owner", "status", "tags"}
}

// DefaultStatuses is the default lifecycle status enumeration.
func DefaultStatuses() []string {
	return []string{"draft", "experimental", "stable", "deprecated"}
}

// Evaluate runs every rule over the result and concatenates their issues.
func (e *Engine) Evaluate(res *model.ParseResult) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, r := range e.rules {
		issues = append(issues, r.Evaluate(res)...)
	}
	return issues
}

// Aggregate computes counts over issues gathered from fileCount sources.
// The result is valid when no issue has error severity.
func Aggregate(issues []model.ValidationIssue, fileCount int) model.ValidationResult {
	res := model.ValidationResult{
		Files:  fileCount,
		Issues: issues,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityError:
			res.ErrorCount++
		case model.SeverityWarning:
			res.WarningCount++
		}
	}
	res.Valid = res.ErrorCount == 0
	return res
}

// RequiredFieldsRule reports one issue per missing required field per entity.
type RequiredFieldsRule struct {
	Fields   []string
	Severity model.Severity
}

func (r *RequiredFieldsRule) Name() string { return "required-fields" }

func (r *RequiredFieldsRule) Evaluate(res *model.ParseResult) []model.ValidationIssue {
	severity := r.Severity
	if severity == "" {
		severity = model.SeverityWarning
	}
	var issues []model.ValidationIssue
	for _, ent := range res.Entities {
		for _, field := range r.Fields {
			if r.fieldPresent(ent, field) {
				continue
			}
			issues = append(issues, model.ValidationIssue{
				FilePath: res.Source,
				Line:     ent.Line,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%s: missing %s", ent.Name, field),
				Severity: severity,
			})
		}
	}
	return issues
}

func (r *RequiredFieldsRule) fieldPresent(ent *model.Entity, field string) bool {
	switch field {
	case "description":
		return ent.Description != ""
	case "owner":
		return ent.Owner != ""
	case "status":
		return ent.Status != ""
	case "tags":
		return len(ent.Tags) > 0
	case "business_goal":
		return ent.BusinessGoal != ""
	default:
		// Unknown field names never fire; configuration typos should not
		// flood every entity with issues.
		return true
	}
}

// StatusRule reports an error for any status outside the allowed set.
// Entities without a status are left to RequiredFieldsRule.
type StatusRule struct {
	Allowed []string
}

func (r *StatusRule) Name() string { return "status-enum" }

func (r *StatusRule) Evaluate(res *model.ParseResult) []model.ValidationIssue {
	allowed := make(map[string]bool, len(r.Allowed))
	for _, s := range r.Allowed {
		allowed[s] = true
	}
	var issues []model.ValidationIssue
	for _, ent := range res.Entities {
		if ent.Status == "" || allowed[ent.Status] {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			FilePath: res.Source,
			Line:     ent.Line,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("%s: status %q is not one of %v", ent.Name, ent.Status, r.Allowed),
			Severity: model.SeverityError,
		})
	}
	return issues
}
