package query

import (
	"context"
	"fmt"
	"time"

	"github.com/logzilla/query2excel/pkg/metrics"
	"go.uber.org/zap"
)

const (
	// MaxAttempts bounds the number of status requests of one run.
	MaxAttempts = 50
	// AttemptDelay is the wait after every IN_PROGRESS answer.
	AttemptDelay = 10 * time.Second
)

// State is the position of a Poller in its state machine.
type State string

const (
	StatePolling     State = "POLLING"
	StateDoneSuccess State = "DONE_SUCCESS"
	StateDoneFailure State = "DONE_FAILURE"
	StateExhausted   State = "EXHAUSTED"
)

// SleepFunc waits d between two attempts and returns early with the
// context error when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// PollerOption configures a Poller.
type PollerOption func(p *Poller)

// WithSleep replaces the blocking wait between attempts.
func WithSleep(sleep SleepFunc) PollerOption {
	return func(p *Poller) {
		p.sleep = sleep
	}
}

// Poller waits for a submitted query to reach a terminal state. A Poller
// is single use.
type Poller struct {
	transport   Transport
	maxAttempts int
	delay       time.Duration
	sleep       SleepFunc

	state    State
	attempts int
}

// NewPoller returns a Poller in the POLLING state using the default budget
// and a blocking sleep.
func NewPoller(transport Transport, opts ...PollerOption) *Poller {
	p := &Poller{
		transport:   transport,
		maxAttempts: MaxAttempts,
		delay:       AttemptDelay,
		sleep:       blockingSleep,
		state:       StatePolling,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns where the state machine stopped.
func (p *Poller) State() State {
	return p.state
}

// Attempts returns the number of status requests sent.
func (p *Poller) Attempts() int {
	return p.attempts
}

// Poll requests the job status until it completes, fails or the attempt
// budget is spent. Only IN_PROGRESS leads to another request.
func (p *Poller) Poll(ctx context.Context, id JobID) (*Completed, error) {
	logger := zap.S().Named("poller")

	for attempt := 1; ; {
		logger.Infof("Attempt %d to retrieve results for query ID %s", attempt, id)

		p.attempts++
		switch status := p.fetch(ctx, id).(type) {
		case InProgress:
			metrics.IncreasePollAttemptsMetric(metrics.PollOutcomeInProgress)
			logger.Info("Query is still in progress. Waiting before next attempt...")
			if err := p.sleep(ctx, p.delay); err != nil {
				p.state = StateDoneFailure
				return nil, fmt.Errorf("waiting for query %s: %w", id, err)
			}
			attempt++
			if attempt > p.maxAttempts {
				p.state = StateExhausted
				logger.Info("Query results not ready after maximum attempts.")
				return nil, NewErrPollExhausted(p.maxAttempts)
			}
		case Completed:
			metrics.IncreasePollAttemptsMetric(metrics.PollOutcomeCompleted)
			p.state = StateDoneSuccess
			return &status, nil
		case Failed:
			metrics.IncreasePollAttemptsMetric(metrics.PollOutcomeFailed)
			p.state = StateDoneFailure
			logger.Info("Failed to retrieve query results.")
			return nil, NewErrPollFailed(attempt, status)
		default:
			p.state = StateDoneFailure
			return nil, fmt.Errorf("unexpected query status %T", status)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, id JobID) Status {
	resp, err := p.transport.GetQuery(ctx, string(id))
	if err != nil {
		return Failed{Detail: err.Error()}
	}
	return Classify(resp)
}

func blockingSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
