package selftest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// T collects the failures of a single check. It satisfies testify's assert.TestingT,
// so checks are written with the usual assert helpers.
type T struct {
	failures []string
}

// Errorf records a failed assertion.
func (t *T) Errorf(format string, args ...any) {
	t.failures = append(t.failures, fmt.Sprintf(format, args...))
}

// Failed reports whether any assertion of the check failed.
func (t *T) Failed() bool {
	return len(t.failures) > 0
}

// Check is a single named live check.
type Check struct {
	Name string
	Run  func(ctx context.Context, t *T)
}

// Module groups related checks.
type Module struct {
	Name   string
	Checks []Check
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Passed   bool
	Message  string
	Duration time.Duration
}

// ModuleReport holds the results of one module.
type ModuleReport struct {
	Name    string
	Results []Result
	Passed  int
	Total   int
}

// Report holds the results of a whole suite run.
type Report struct {
	Modules  []ModuleReport
	Passed   int
	Total    int
	Duration time.Duration
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return r.Passed == r.Total
}

// Suite runs modules of checks sequentially.
type Suite struct {
	log     *slog.Logger
	modules []Module
}

// NewSuite creates a suite of the given modules.
func NewSuite(log *slog.Logger, modules ...Module) *Suite {
	return &Suite{log: log, modules: modules}
}

// Run executes every check in order and returns the report. A cancelled context
// marks the remaining checks as failed without running them.
func (s *Suite) Run(ctx context.Context) *Report {
	startTime := time.Now()
	report := &Report{Modules: make([]ModuleReport, 0, len(s.modules))}

	for _, module := range s.modules {
		moduleReport := ModuleReport{Name: module.Name, Results: make([]Result, 0, len(module.Checks))}

		for _, check := range module.Checks {
			var result Result
			if err := ctx.Err(); err != nil {
				result = Result{Name: check.Name, Message: "not run: " + err.Error()}
			} else {
				result = s.runCheck(ctx, check)
			}

			moduleReport.Results = append(moduleReport.Results, result)
			moduleReport.Total++
			if result.Passed {
				moduleReport.Passed++
			}
		}

		s.log.InfoContext(ctx, "Self-test module finished",
			"module", module.Name,
			"passed", moduleReport.Passed,
			"total", moduleReport.Total,
		)

		report.Passed += moduleReport.Passed
		report.Total += moduleReport.Total
		report.Modules = append(report.Modules, moduleReport)
	}

	report.Duration = time.Since(startTime)

	return report
}

func (s *Suite) runCheck(ctx context.Context, check Check) (result Result) {
	t := &T{}
	startTime := time.Now()

	defer func() {
		result.Name = check.Name
		result.Duration = time.Since(startTime)

		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "Self-test check panicked", "check", check.Name, "panic", r)
			t.Errorf("panic: %v", r)
		}

		result.Passed = !t.Failed()
		result.Message = strings.Join(t.failures, "\n")
		if !result.Passed {
			s.log.WarnContext(ctx, "Self-test check failed", "check", check.Name, "message", result.Message)
		}
	}()

	check.Run(ctx, t)

	return result
}
