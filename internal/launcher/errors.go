package launcher

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Stage constants identify which pipeline step a LaunchError came from.
const (
	StageOptions       = "options"
	StagePrerequisites = "prerequisites"
	StageConfig        = "config"
	StageEnvironment   = "environment"
	StageBuild         = "build"
	StageRun           = "run"
)

// LaunchError is a structured error type for launcher failures. It names the
// pipeline stage that failed and, where one exists, a remediation hint for
// the operator.
type LaunchError struct {
	// Stage is the pipeline step that failed (e.g. "prerequisites").
	Stage string
	// Message is the primary error description.
	Message string
	// Remediation is a human-readable hint on how to fix the issue.
	Remediation string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Stage, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	if e.Remediation != "" {
		fmt.Fprintf(&b, " [hint: %s]", e.Remediation)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// ExitCode maps a pipeline error to the launcher's process exit code.
// A failed docker run propagates docker's own exit status; every other
// failure exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}
