package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// jobTimeout bounds a single maintenance run.
const jobTimeout = 2 * time.Minute

// SessionSweeper removes expired sessions from the session store.
type SessionSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// WorkoutReconciler links workouts left out of their owner's collection.
type WorkoutReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron       *cron.Cron
	sessions   SessionSweeper
	reconciler WorkoutReconciler
}

// NewScheduler creates a scheduler running both jobs on schedule, which accepts
// standard cron expressions and descriptors such as "@every 10m".
func NewScheduler(schedule string, sessions SessionSweeper, reconciler WorkoutReconciler) (*Scheduler, error) {
	logger := cronLogger{log.Logger}
	s := &Scheduler{
		cron:       cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		sessions:   sessions,
		reconciler: reconciler,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the jobs once immediately, then on schedule in the background.
func (s *Scheduler) Start() {
	log.Info().Msg("Starting maintenance scheduler")
	go s.RunOnce()
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped maintenance scheduler")
}

// RunOnce executes every maintenance job a single time.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if s.sessions != nil {
		removed, err := s.sessions.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Maintenance: failed to sweep expired sessions")
		} else if removed > 0 {
			log.Info().Int("removed", removed).Msg("Maintenance: swept expired sessions")
		}
	}

	if s.reconciler != nil {
		repaired, err := s.reconciler.Reconcile(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Maintenance: failed to reconcile workouts")
		} else if repaired > 0 {
			log.Warn().Int("repaired", repaired).Msg("Maintenance: linked orphaned workouts")
		}
	}
}

// cronLogger routes cron's internal logging through zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
