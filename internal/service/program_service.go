package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/metrics"
	"github.com/alec12026-hash/rockyfit-sub000/internal/program"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
	"github.com/alec12026-hash/rockyfit-sub000/internal/storage"
)

var (
	ErrNoActiveProgram   = errors.New("no active program")
	ErrNotOnboarded      = errors.New("user has not completed onboarding")
	ErrExportUnavailable = errors.New("program export is not configured")
	ErrExportFailed      = errors.New("failed to export program")
	ErrGeneratorNotWired = errors.New("no program generator configured")
)

// SplitChangeFailedMessage is returned when a requested split change could not be generated.
const SplitChangeFailedMessage = "Sorry, I couldn't rebuild your program right now. Your current program is unchanged, please try again in a bit."

const exportContentType = "application/json"

// ExportResult points at an archived copy of the active program.
type ExportResult struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ProgramService interface {
	GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error)
	// GenerateAndActivate builds a program with the generator, or the fallback builder when the
	// generator fails, and makes it the user's only active program.
	GenerateAndActivate(ctx context.Context, userID primitive.ObjectID, profile domain.Profile) (*domain.Program, error)
	Regenerate(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error)
	// Adjust applies whatever the free text asks for and returns the message for the user, or nil
	// when nothing was triggered.
	Adjust(ctx context.Context, userID primitive.ObjectID, text string) (*string, error)
	// Deload applies a deload to an already loaded program and persists it.
	Deload(ctx context.Context, p *domain.Program) error
	Export(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error)
}

type programService struct {
	programRepo   repository.ProgramRepository
	userRepo      repository.UserRepository
	generator     program.Generator
	objectStorage storage.ObjectStorage
	exportExpiry  time.Duration
	coaching      CoachingInvalidator
	metrics       *metrics.Manager
	now           func() time.Time
}

// NewProgramService creates a program service. generator and objectStorage may be nil: programs
// then always come from the fallback builder and export is unavailable.
func NewProgramService(
	programRepo repository.ProgramRepository,
	userRepo repository.UserRepository,
	generator program.Generator,
	objectStorage storage.ObjectStorage,
	exportExpiry time.Duration,
	invalidator CoachingInvalidator,
	metricsManager *metrics.Manager,
) ProgramService {
	return &programService{
		programRepo:   programRepo,
		userRepo:      userRepo,
		generator:     generator,
		objectStorage: objectStorage,
		exportExpiry:  exportExpiry,
		coaching:      invalidatorOrNoop(invalidator),
		metrics:       metricsManager,
		now:           time.Now,
	}
}

func (s *programService) GetActive(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	p, err := s.programRepo.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveProgram
		}
		return nil, err
	}
	return p, nil
}

func (s *programService) GenerateAndActivate(ctx context.Context, userID primitive.ObjectID, profile domain.Profile) (*domain.Program, error) {
	p, err := s.generate(ctx, profile, "")
	if err != nil {
		log.WithField("user", userID.Hex()).Warnf("program generation failed, using fallback: %s", err)
		p = program.BuildFallback(profile)
	}
	if err := s.activate(ctx, userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *programService) Regenerate(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsOnboarded() {
		return nil, ErrNotOnboarded
	}
	return s.GenerateAndActivate(ctx, userID, *user.Profile)
}

func (s *programService) Adjust(ctx context.Context, userID primitive.ObjectID, text string) (*string, error) {
	intent := program.DetectIntent(text)
	logger := log.WithField("user", userID.Hex())

	switch {
	case intent.None():
		return nil, nil

	// A new split replaces the program outright, so a deload asked for in the same breath is moot.
	case intent.SplitChange:
		profile := domain.Profile{}
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user.Profile != nil {
			profile = *user.Profile
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		p, err := s.generate(ctx, profile, intent.Structure)
		if err != nil {
			logger.Warnf("split change to %q failed: %s", intent.Structure, err)
			msg := SplitChangeFailedMessage
			return &msg, nil
		}
		if err := s.activate(ctx, userID, p); err != nil {
			return nil, err
		}
		s.metrics.CounterProgramAdjustments.WithLabelValues("split_change").Inc()
		msg := fmt.Sprintf("Done. I've rebuilt your program around a %s split: %q is now active.", intent.Structure, p.Name)
		return &msg, nil

	default:
		p, err := s.programRepo.GetActive(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logger.Debug("deload requested without an active program")
				return nil, nil
			}
			return nil, err
		}
		if err := s.Deload(ctx, p); err != nil {
			return nil, err
		}
		msg := program.DeloadConfirmation
		return &msg, nil
	}
}

func (s *programService) Deload(ctx context.Context, p *domain.Program) error {
	program.ApplyDeload(p, s.now())
	if err := s.programRepo.Update(ctx, p); err != nil {
		log.WithField("user", p.UserID.Hex()).Errorf("failed to persist deload of program %s: %s", p.ID.Hex(), err)
		return err
	}
	s.metrics.CounterProgramAdjustments.WithLabelValues("deload").Inc()
	s.coaching.Invalidate(p.UserID)
	return nil
}

// Export archives the active program as JSON and returns a temporary download link.
func (s *programService) Export(ctx context.Context, userID primitive.ObjectID) (*ExportResult, error) {
	if s.objectStorage == nil {
		return nil, ErrExportUnavailable
	}
	p, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExportFailed, err)
	}

	objectKey := path.Join("programs", userID.Hex(), fmt.Sprintf("%s-%s.json", p.ID.Hex(), uuid.NewString()))
	if err := s.objectStorage.PutObject(ctx, objectKey, exportContentType, body); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExportFailed, err)
	}

	expiry := s.exportExpiry
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	url, err := s.objectStorage.GeneratePresignedDownloadURL(ctx, objectKey, expiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExportFailed, err)
	}

	return &ExportResult{
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(expiry),
	}, nil
}

// generate calls the external generator and records how long it took.
func (s *programService) generate(ctx context.Context, profile domain.Profile, structure string) (*domain.Program, error) {
	if s.generator == nil {
		return nil, ErrGeneratorNotWired
	}
	start := s.now()
	p, err := s.generator.Generate(ctx, profile, structure)
	s.metrics.HistGenerationDuration.Observe(s.now().Sub(start).Seconds())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("generator returned no program")
	}
	return p, nil
}

func (s *programService) activate(ctx context.Context, userID primitive.ObjectID, p *domain.Program) error {
	now := s.now()
	p.ID = primitive.NilObjectID
	p.UserID = userID
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	id, err := s.programRepo.CreateActive(ctx, p)
	if err != nil {
		log.WithField("user", userID.Hex()).Errorf("failed to activate program: %s", err)
		return err
	}
	p.ID = id

	s.metrics.CounterProgramGenerations.WithLabelValues(string(p.Source)).Inc()
	s.coaching.Invalidate(userID)
	return nil
}
