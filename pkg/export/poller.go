// Package export observes long-running server-side export tasks. The
// server owns the job; this package only polls its status on a fixed
// interval until a terminal state or the attempt ceiling is reached.
package export

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	oerrors "github.com/urbanaid/urbanaid-go/pkg/errors"
)

// Status values mirror the task states reported by the server.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusStarted Status = "STARTED"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Job is a snapshot of a server-side export task. Filename is set once the
// task has produced its artifact.
type Job struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Filename string `json:"filename,omitempty"`
}

// StatusFunc fetches the current state of a job.
type StatusFunc func(ctx context.Context, jobID string) (Job, error)

// Report describes how a poll run ended.
type Report struct {
	JobID    string
	Attempts int
	Filename string
}

const (
	DefaultInterval    = 2 * time.Second
	DefaultMaxAttempts = 20
)

type PollerConfig struct {
	Status      StatusFunc
	Interval    time.Duration
	MaxAttempts int
	Logger      logr.Logger

	// After is the timer source; swapped for a fake in tests so the
	// timeout path runs without wall-clock delays.
	After func(d time.Duration) <-chan time.Time
}

type Poller struct {
	status      StatusFunc
	interval    time.Duration
	maxAttempts int
	logger      logr.Logger
	after       func(d time.Duration) <-chan time.Time
}

func NewPoller(config PollerConfig) (*Poller, error) {
	if config.Status == nil {
		return nil, oerrors.New(oerrors.CodeUnknown, "export: status func is required")
	}

	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.After == nil {
		config.After = time.After
	}

	return &Poller{
		status:      config.Status,
		interval:    config.Interval,
		maxAttempts: config.MaxAttempts,
		logger:      config.Logger,
		after:       config.After,
	}, nil
}

// Wait polls the job until it succeeds, fails, or exceeds the attempt
// ceiling. A transport error on any tick stops polling immediately; the
// overall job can only be retried by re-invoking the caller. Callers must
// not start two waits for the same job id.
func (p *Poller) Wait(ctx context.Context, jobID string) (Report, error) {
	report := Report{JobID: jobID}

	for {
		select {
		case <-ctx.Done():
			return report, oerrors.Wrap(oerrors.CodeExportFailed, "export cancelled", ctx.Err())
		case <-p.after(p.interval):
		}

		report.Attempts++
		if report.Attempts > p.maxAttempts {
			return report, oerrors.New(oerrors.CodeExportTimeout, "Export task took too long, giving up!!")
		}

		job, err := p.status(ctx, jobID)
		if err != nil {
			p.logger.V(1).Info("export status poll failed", "job_id", jobID, "attempt", report.Attempts, "error", err.Error())
			return report, oerrors.Wrap(oerrors.CodeExportFailed, "Something went wrong during export!!", err)
		}

		p.logger.V(1).Info("export status poll", "job_id", jobID, "attempt", report.Attempts, "status", string(job.Status))

		switch job.Status {
		case StatusSuccess:
			report.Filename = job.Filename
			return report, nil
		case StatusFailure:
			return report, oerrors.New(oerrors.CodeExportFailed, "Export task failed on the server!!")
		}
		// Absent or unknown status means the task is still running.
	}
}
