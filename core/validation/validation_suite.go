package validation

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"hashart/core"
)

// ValidationStep represents a single validation step with its status.
type ValidationStep struct {
	Name    string
	Status  StepStatus
	Message string
	Error   error
	Latency time.Duration
}

// StepStatus represents the status of a validation step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepPassed
	StepFailed
	StepWarning
	StepSkipped
)

// String returns the string representation of a step status.
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "pending"
	case StepRunning:
		return "running"
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepWarning:
		return "warning"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SuiteResult represents the complete result of validation suite execution.
type SuiteResult struct {
	Steps       []ValidationStep
	TotalSteps  int
	PassedSteps int
	FailedSteps int
	Warnings    int
	Duration    time.Duration
	Success     bool
}

// ValidationSuite runs every check against a Config and prints colored
// progress.
//
// Usage:
//
//	result := validation.NewValidationSuite(cfg).Validate(ctx)
//	if !result.Success {
//	    os.Exit(core.ExitCodeUsage)
//	}
type ValidationSuite struct {
	cfg          *core.Config
	output       io.Writer
	envPath      string
	showProgress bool
	failFast     bool
}

// NewValidationSuite creates a suite for cfg writing to stdout.
func NewValidationSuite(cfg *core.Config) *ValidationSuite {
	return &ValidationSuite{
		cfg:          cfg,
		output:       os.Stdout,
		envPath:      ".env",
		showProgress: true,
	}
}

// WithOutput sets the output writer for progress messages.
func (s *ValidationSuite) WithOutput(w io.Writer) *ValidationSuite {
	s.output = w
	return s
}

// WithEnvPath sets a custom path for the .env file.
func (s *ValidationSuite) WithEnvPath(path string) *ValidationSuite {
	s.envPath = path
	return s
}

// WithShowProgress enables or disables progress output.
func (s *ValidationSuite) WithShowProgress(show bool) *ValidationSuite {
	s.showProgress = show
	return s
}

// WithFailFast stops validation on first failure if enabled.
func (s *ValidationSuite) WithFailFast(failFast bool) *ValidationSuite {
	s.failFast = failFast
	return s
}

// Validate runs all checks in order. Disk space is skipped when the output
// directory is unusable and warnings never fail the suite.
func (s *ValidationSuite) Validate(ctx context.Context) SuiteResult {
	start := time.Now()
	if s.showProgress {
		s.printHeader("hashart configuration check")
	}

	checks := []struct {
		name string
		run  func() CheckResult
	}{
		{"Environment File", func() CheckResult { return CheckEnvFile(s.envPath) }},
		{"Seed", func() CheckResult { return CheckSeed(s.cfg) }},
		{"Render Settings", func() CheckResult { return CheckRenderSettings(s.cfg) }},
		{"Output Directory", func() CheckResult { return CheckOutputDir(s.cfg.OutputDir) }},
		{"Disk Space", s.checkDiskSpace},
		{"Render History", func() CheckResult { return CheckHistory(ctx, s.cfg) }},
	}

	steps := make([]ValidationStep, 0, len(checks))
	outputOK := true
	for _, check := range checks {
		var step ValidationStep
		if check.name == "Disk Space" && !outputOK {
			step = ValidationStep{Name: check.name, Status: StepSkipped, Message: "output directory unusable"}
			if s.showProgress {
				s.printStep(step)
			}
		} else {
			step = s.runStep(check.name, check.run)
		}
		if check.name == "Output Directory" && step.Status == StepFailed {
			outputOK = false
		}

		steps = append(steps, step)
		if s.failFast && step.Status == StepFailed {
			break
		}
	}

	result := buildResult(steps, start)
	if s.showProgress {
		s.printSummary(result)
	}
	return result
}

func (s *ValidationSuite) checkDiskSpace() CheckResult {
	_, format, err := s.cfg.RenderOptions()
	if err != nil {
		return CheckResult{Status: StepSkipped, Message: "render settings invalid"}
	}
	return CheckDiskSpace(s.cfg.OutputDir, EstimateRenderBytes(s.cfg.Width, s.cfg.Height, s.cfg.ThumbnailSize, format))
}

// runStep executes a check with timing and progress output.
func (s *ValidationSuite) runStep(name string, fn func() CheckResult) ValidationStep {
	if s.showProgress {
		fmt.Fprintf(s.output, "  ◌ %s...", name)
	}

	start := time.Now()
	res := fn()
	step := ValidationStep{
		Name:    name,
		Status:  res.Status,
		Message: res.Message,
		Error:   res.Error,
		Latency: time.Since(start),
	}

	if s.showProgress {
		s.printStep(step)
	}
	return step
}

func buildResult(steps []ValidationStep, start time.Time) SuiteResult {
	result := SuiteResult{
		Steps:      steps,
		TotalSteps: len(steps),
		Duration:   time.Since(start),
		Success:    true,
	}
	for _, step := range steps {
		switch step.Status {
		case StepPassed:
			result.PassedSteps++
		case StepFailed:
			result.FailedSteps++
			result.Success = false
		case StepWarning:
			result.Warnings++
		}
	}
	return result
}

func (s *ValidationSuite) printHeader(title string) {
	fmt.Fprintln(s.output)
	color.New(color.FgCyan, color.Bold).Fprintf(s.output, "━━━ %s ━━━\n", title)
	fmt.Fprintln(s.output)
}

// printStep prints a completed validation step with status indicator.
func (s *ValidationSuite) printStep(step ValidationStep) {
	var icon string
	var clr *color.Color

	switch step.Status {
	case StepPassed:
		icon, clr = "✓", color.New(color.FgGreen)
	case StepFailed:
		icon, clr = "✗", color.New(color.FgRed)
	case StepWarning:
		icon, clr = "!", color.New(color.FgYellow)
	case StepSkipped:
		icon, clr = "○", color.New(color.FgHiBlack)
	default:
		icon, clr = "?", color.New(color.FgWhite)
	}

	// Overwrite the "running" line
	fmt.Fprintf(s.output, "\r")
	clr.Fprintf(s.output, "  %s %s", icon, step.Name)
	if step.Message != "" {
		color.New(color.FgHiBlack).Fprintf(s.output, " - %s", step.Message)
	}
	fmt.Fprintln(s.output)

	if step.Status == StepFailed && step.Error != nil {
		color.New(color.FgRed).Fprintf(s.output, "    └─ %s\n", step.Error.Error())
	}
}

func (s *ValidationSuite) printSummary(result SuiteResult) {
	fmt.Fprintln(s.output)

	if result.Success {
		ok := color.New(color.FgGreen, color.Bold)
		ok.Fprintf(s.output, "━━━ Validation Passed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d/%d checks passed, %d warnings, %v)",
			result.PassedSteps, result.TotalSteps, result.Warnings, result.Duration.Round(time.Millisecond))
		ok.Fprintln(s.output, " ━━━")
	} else {
		bad := color.New(color.FgRed, color.Bold)
		bad.Fprintf(s.output, "━━━ Validation Failed ")
		color.New(color.FgHiBlack).Fprintf(s.output, "(%d passed, %d failed)",
			result.PassedSteps, result.FailedSteps)
		bad.Fprintln(s.output, " ━━━")
	}

	fmt.Fprintln(s.output)
}

// FirstError returns the first error from failed steps, or nil if all passed.
func (r SuiteResult) FirstError() error {
	for _, step := range r.Steps {
		if step.Error != nil {
			return step.Error
		}
	}
	return nil
}

// Summary returns a one-line plain-text summary.
func (r SuiteResult) Summary() string {
	var sb strings.Builder
	if r.Success {
		sb.WriteString("Validation Passed: ")
	} else {
		sb.WriteString("Validation Failed: ")
	}
	fmt.Fprintf(&sb, "%d/%d checks passed", r.PassedSteps, r.TotalSteps)
	if r.FailedSteps > 0 {
		fmt.Fprintf(&sb, ", %d failed", r.FailedSteps)
	}
	if r.Warnings > 0 {
		fmt.Fprintf(&sb, ", %d warnings", r.Warnings)
	}
	fmt.Fprintf(&sb, " (took %v)", r.Duration.Round(time.Millisecond))
	return sb.String()
}
