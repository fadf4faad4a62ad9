package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Status is the declared result of a unit of work. The message, if any,
// becomes the body of the final ping.
type Status struct {
	Success bool
	Message string
}

// WorkFunc is the unit of work wrapped by a run. A returned error means the
// work itself broke and is propagated to the caller; a Status with
// Success=false is an explicit, non-propagating failure.
type WorkFunc func(ctx context.Context) (Status, error)

// Pinger reports run lifecycle events to the monitoring provider.
// *healthchecks.Client satisfies it. The rid ties the start ping to the
// final ping of the same run.
type Pinger interface {
	PingStart(ctx context.Context, rid, body string) error
	PingSuccess(ctx context.Context, rid, body string) error
	PingFail(ctx context.Context, rid, body string) error
}

// Runner wraps units of work with lifecycle pings. Runs are independent:
// the Runner holds no per-run state and may be reused across calls.
type Runner struct {
	pinger Pinger
	log    *slog.Logger
}

func New(pinger Pinger, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}

	return &Runner{
		pinger: pinger,
		log:    log,
	}
}

// Run sends a start ping, invokes work, and sends a success or fail ping
// depending on the outcome. Ping failures are logged and never returned;
// monitoring is advisory. An error (or panic) from work still triggers the
// fail ping and then propagates to the caller unmodified.
func (r *Runner) Run(ctx context.Context, work WorkFunc) error {
	rid := uuid.NewString()

	if err := r.pinger.PingStart(ctx, rid, ""); err != nil {
		r.log.Error("start ping failed", "rid", rid, "error", err.Error())
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.pingFail(ctx, rid, fmt.Sprintf("panic: %v", rec))
			panic(rec)
		}
	}()

	status, err := work(ctx)
	if err != nil {
		r.pingFail(ctx, rid, err.Error())
		return err
	}

	if !status.Success {
		r.pingFail(ctx, rid, status.Message)
		return nil
	}

	if pingErr := r.pinger.PingSuccess(ctx, rid, status.Message); pingErr != nil {
		r.log.Error("success ping failed", "rid", rid, "error", pingErr.Error())
	}

	return nil
}

func (r *Runner) pingFail(ctx context.Context, rid, body string) {
	if err := r.pinger.PingFail(ctx, rid, body); err != nil {
		r.log.Error("failure ping failed", "rid", rid, "error", err.Error())
	}
}
