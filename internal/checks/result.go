package checks

// CheckResult records the outcome of a single check.
type CheckResult struct {
	Description string
	Failure     *Failure
}

// Passed reports whether the check succeeded.
func (result CheckResult) Passed() bool {
	return result.Failure == nil
}

// Pass builds a passing CheckResult.
func Pass(description string) CheckResult {
	return CheckResult{Description: description}
}

// Fail builds a failing CheckResult.
func Fail(description string, failure *Failure) CheckResult {
	return CheckResult{Description: description, Failure: failure}
}

// Stage groups related checks under a titled section.
type Stage struct {
	Title   string
	Results []CheckResult
}

// Record appends a result to the stage.
func (stage *Stage) Record(result CheckResult) {
	stage.Results = append(stage.Results, result)
}

// FailureCount counts failing checks in the stage.
func (stage Stage) FailureCount() int {
	failures := 0
	for _, result := range stage.Results {
		if !result.Passed() {
			failures++
		}
	}
	return failures
}

// Failures returns the failures recorded in the stage in check order.
func (stage Stage) Failures() []*Failure {
	var failures []*Failure
	for _, result := range stage.Results {
		if !result.Passed() {
			failures = append(failures, result.Failure)
		}
	}
	return failures
}
