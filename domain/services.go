package domain

import (
	"context"
	"io"
)

// ExecutableTask is a unit of work run by the parallel executor
type ExecutableTask interface {
	// Name identifies the task in error reports
	Name() string

	// IsEnabled reports whether the task should run
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment advances progress by n units
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task finished
	Complete()
}

// ProgressManager creates progress trackers for long-running work
type ProgressManager interface {
	// StartTask begins tracking a task with a known total
	StartTask(description string, total int) TaskProgress

	// IsInteractive reports whether progress is rendered to a terminal
	IsInteractive() bool

	// Close releases any rendering resources
	Close()
}

// BuildService builds and refreshes the import graph
type BuildService interface {
	Build(ctx context.Context, req BuildRequest) (*BuildResponse, error)
}

// ImpactService answers route-impact queries
type ImpactService interface {
	Impact(ctx context.Context, req ImpactRequest) (*ImpactResponse, error)
}

// OutputFormatter renders responses for human or machine consumption
type OutputFormatter interface {
	WriteBuild(resp *BuildResponse, format OutputFormat, writer io.Writer) error
	WriteImpact(resp *ImpactResponse, format OutputFormat, writer io.Writer) error
	WriteRoutes(routes []*RouteDefinition, format OutputFormat, writer io.Writer) error
}
