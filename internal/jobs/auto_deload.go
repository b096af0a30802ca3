package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"

	"github.com/alec12026-hash/rockyfit-sub000/internal/coaching"
	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/program"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

const (
	DefaultAutoDeloadSpec = "0 0 5 * * *"

	deloadCooldown = 7 * 24 * time.Hour
	runTimeout     = 5 * time.Minute
)

type ScheduleEvaluator interface {
	Evaluate(ctx context.Context, userID primitive.ObjectID) (coaching.ScheduleAdvice, error)
}

type ProgramDeloader interface {
	Deload(ctx context.Context, p *domain.Program) error
}

// AutoDeload deloads active programs of users whose recent check-ins call for rest.
// A program deloaded in the last seven days is left alone.
type AutoDeload struct {
	programRepo repository.ProgramRepository
	schedule    ScheduleEvaluator
	deloader    ProgramDeloader
	now         func() time.Time
}

func NewAutoDeload(programRepo repository.ProgramRepository, schedule ScheduleEvaluator, deloader ProgramDeloader) *AutoDeload {
	return &AutoDeload{
		programRepo: programRepo,
		schedule:    schedule,
		deloader:    deloader,
		now:         time.Now,
	}
}

// Run evaluates every active program once and returns how many were deloaded. Failures for
// one user do not stop the others; they are combined into the returned error.
func (j *AutoDeload) Run(ctx context.Context) (int, error) {
	programs, err := j.programRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active programs: %w", err)
	}

	var (
		deloaded int
		errs     error
	)
	for i := range programs {
		p := &programs[i]
		if program.DeloadedWithin(p, deloadCooldown, j.now()) {
			continue
		}

		advice, err := j.schedule.Evaluate(ctx, p.UserID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("evaluate user %s: %w", p.UserID.Hex(), err))
			continue
		}
		if advice.Recommendation != coaching.ScheduleRest {
			continue
		}

		if err := j.deloader.Deload(ctx, p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("deload program %s: %w", p.ID.Hex(), err))
			continue
		}
		log.WithFields(log.Fields{
			"user":    p.UserID.Hex(),
			"program": p.ID.Hex(),
		}).Info("auto-deload applied")
		deloaded++
	}

	return deloaded, errs
}

// Scheduler runs AutoDeload on a cron spec (seconds field first).
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(job *AutoDeload, spec string) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultAutoDeloadSpec
	}

	c := cron.NewWithLocation(time.UTC)
	err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		n, err := job.Run(ctx)
		if err != nil {
			log.Errorf("auto-deload run finished with errors: %s", err)
		}
		log.Debugf("auto-deload run deloaded %d programs", n)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid auto-deload spec %q: %w", spec, err)
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
