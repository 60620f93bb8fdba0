package validate

import (
	"fmt"

	"github.com/temirov/overseer/internal/ui"
)

const (
	validatingProjectHeaderTemplateConstant = "Validating Project: %s"
	stageTitleTemplateConstant              = "--- %s ---"
	validationSuccessfulHeaderConstant      = "✅ Validation Successful ✅"
	validationFailedHeaderConstant          = "❌ Validation Failed ❌"
	validationSuccessTemplateConstant       = "All configuration files for project '%s' are valid."
	validationFailureTemplateConstant       = "Found %d error(s) in the configuration for project '%s'."
	validationFailureAdviceConstant         = "Please fix the issues listed above before starting the autonomous system."
)

// Render writes the stage-by-stage outcome followed by a summary banner.
func Render(console *ui.Console, result Result) {
	console.Header(fmt.Sprintf(validatingProjectHeaderTemplateConstant, result.ProjectName))
	for _, stage := range result.Stages {
		console.Stage(fmt.Sprintf(stageTitleTemplateConstant, stage.Title))
		for _, checkResult := range stage.Results {
			console.Status(checkResult.Description, checkResult.Passed())
			if !checkResult.Passed() {
				console.ErrorDetail(checkResult.Failure.Message, checkResult.Failure.Details)
			}
		}
	}

	if result.Valid() {
		console.Header(validationSuccessfulHeaderConstant)
		console.Line(ui.ToneGood, fmt.Sprintf(validationSuccessTemplateConstant, result.ProjectName))
		return
	}
	console.Header(validationFailedHeaderConstant)
	console.Line(ui.ToneBad, fmt.Sprintf(validationFailureTemplateConstant, result.ErrorCount(), result.ProjectName))
	console.Line(ui.ToneWarning, validationFailureAdviceConstant)
}
