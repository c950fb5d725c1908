package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"flowcap/internal/types"
)

var exprRegex = regexp.MustCompile(`\$\{\{\s*(.+?)\s*\}\}`)

// checkVariableRefs verifies that every ${{ variables.name }}
// expression in step descriptions and string parameters names a key in
// the workflow's variables map.
func checkVariableRefs(workflow *types.WorkflowDefinition, ve *ValidationError) {
	for _, step := range workflow.Steps {
		checkStringRefs(step.Description, workflow.Variables, step.StepID, ve)
		for _, v := range step.Parameters {
			checkValueRefs(v, workflow.Variables, step.StepID, ve)
		}
	}
}

func checkValueRefs(v any, variables map[string]any, stepID string, ve *ValidationError) {
	switch val := v.(type) {
	case string:
		checkStringRefs(val, variables, stepID, ve)
	case []any:
		for _, item := range val {
			checkValueRefs(item, variables, stepID, ve)
		}
	case map[string]any:
		for _, item := range val {
			checkValueRefs(item, variables, stepID, ve)
		}
	}
}

func checkStringRefs(s string, variables map[string]any, stepID string, ve *ValidationError) {
	for _, match := range exprRegex.FindAllStringSubmatch(s, -1) {
		name, ok := variableName(match[1])
		if !ok {
			continue
		}
		if _, exists := variables[name]; !exists {
			ve.Add(fmt.Sprintf("step %q: references unknown variable %q", stepID, name))
		}
	}
}

// ResolveVariables returns a copy of the workflow with every
// ${{ variables.name }} expression in descriptions and parameters
// replaced by the variable's value. Unknown references are an error.
func ResolveVariables(workflow *types.WorkflowDefinition) (*types.WorkflowDefinition, error) {
	resolved := *workflow
	resolved.Steps = make([]types.WorkflowStep, len(workflow.Steps))

	for i, step := range workflow.Steps {
		desc, err := resolveString(step.Description, workflow.Variables)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.StepID, err)
		}
		step.Description = desc

		if step.Parameters != nil {
			params := make(map[string]any, len(step.Parameters))
			for k, v := range step.Parameters {
				rv, err := resolveValue(v, workflow.Variables)
				if err != nil {
					return nil, fmt.Errorf("step %q: resolving %q: %w", step.StepID, k, err)
				}
				params[k] = rv
			}
			step.Parameters = params
		}
		resolved.Steps[i] = step
	}

	return &resolved, nil
}

func resolveValue(v any, variables map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return resolveString(val, variables)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			r, err := resolveValue(item, variables)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			r, err := resolveValue(item, variables)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func resolveString(s string, variables map[string]any) (string, error) {
	var resolveErr error
	result := exprRegex.ReplaceAllStringFunc(s, func(match string) string {
		expr := exprRegex.FindStringSubmatch(match)[1]
		name, ok := variableName(expr)
		if !ok {
			return match
		}
		value, exists := variables[name]
		if !exists {
			resolveErr = fmt.Errorf("unknown variable %q", name)
			return match
		}
		return fmt.Sprintf("%v", value)
	})
	return result, resolveErr
}

// variableName extracts "name" from a "variables.name" expression.
func variableName(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "variables.") {
		return "", false
	}
	return strings.TrimPrefix(expr, "variables."), true
}
