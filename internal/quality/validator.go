package quality

import (
	"fmt"
	"strings"

	"github.com/taskbank/gatekeeper/internal/types"
)

const maxNameLength = 500

// Validate runs structural validation over a task. Errors are hard
// failures that force the task back to draft; warnings flag gaps the
// metric calculators will also penalize but that do not block
// progression on their own.
func Validate(task *types.Task) types.ValidationResult {
	var result types.ValidationResult

	addError := func(code types.ValidationCode, field, message string) {
		result.Errors = append(result.Errors, types.ValidationIssue{
			Code: code, Field: field, Message: message,
		})
	}
	addWarning := func(code types.ValidationCode, field, message string) {
		result.Warnings = append(result.Warnings, types.ValidationIssue{
			Code: code, Field: field, Message: message,
		})
	}

	if strings.TrimSpace(task.Name) == "" {
		addError(types.CodeRequiredField, "name", "task name is required")
	} else if len(task.Name) > maxNameLength {
		addError(types.CodeTooLong, "name",
			fmt.Sprintf("name exceeds %d characters", maxNameLength))
	}

	if strings.TrimSpace(task.Content.Prompt) == "" {
		addError(types.CodeRequiredField, "content.prompt", "task prompt is required")
	}

	if !task.DifficultyLevel.IsValid() {
		addError(types.CodeInvalidValue, "difficulty_level",
			fmt.Sprintf("unknown difficulty level %q", task.DifficultyLevel))
	}

	if strings.TrimSpace(task.Category) == "" {
		addError(types.CodeRequiredField, "category", "task category is required")
	}

	if strings.TrimSpace(task.Content.Description) == "" {
		addWarning(types.CodeRequiredField, "content.description",
			"task has no description")
	}
	if len(task.Content.EvaluationCriteria) == 0 {
		addWarning(types.CodeRequiredField, "content.evaluation_criteria",
			"task has no evaluation criteria")
	}
	if prompt := strings.TrimSpace(task.Content.Prompt); prompt != "" && len(prompt) < 20 {
		addWarning(types.CodeTooShort, "content.prompt",
			"prompt is very short")
	}

	return result
}
