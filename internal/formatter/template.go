// Package formatter renders notifications through ${variable} templates
// and named presets, for the follow command's custom output.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine parses and renders ${variable} templates.
type TemplateEngine interface {
	// Parse returns the distinct variables used in template, in order.
	Parse(template string) ([]string, error)

	// Substitute replaces every variable in template with its value.
	Substitute(template string, ctx VariableContext) (string, error)

	// Validate checks delimiters and rejects unknown variables.
	Validate(template string) error
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a template engine.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\$\{([a-z0-9-]+)\}`),
		resolver:        NewVariableResolver(),
	}
}

func (te *templateEngine) Parse(template string) ([]string, error) {
	variables := []string{}
	seen := make(map[string]bool)
	for _, match := range te.variablePattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if !seen[name] {
			variables = append(variables, name)
			seen[name] = true
		}
	}
	return variables, nil
}

func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	var firstErr error
	result := te.variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := te.variablePattern.FindStringSubmatch(match)[1]
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

func (te *templateEngine) Validate(template string) error {
	opens := strings.Count(template, "${")
	closes := len(te.variablePattern.FindAllString(template, -1))
	if opens != closes {
		return fmt.Errorf("mismatched variable delimiters in %q", template)
	}
	variables, _ := te.Parse(template)
	for _, name := range variables {
		if _, err := te.resolver.Resolve(name, VariableContext{}); err != nil {
			return err
		}
	}
	return nil
}
