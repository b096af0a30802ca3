package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

var (
	validExperience = map[domain.ExperienceLevel]bool{
		domain.ExperienceBeginner:     true,
		domain.ExperienceIntermediate: true,
		domain.ExperienceAdvanced:     true,
	}
	validGoals = map[domain.Goal]bool{
		domain.GoalStrength:    true,
		domain.GoalHypertrophy: true,
		domain.GoalGeneral:     true,
		domain.GoalFatLoss:     true,
	}
	validSleepQuality = map[string]bool{"": true, "poor": true, "fair": true, "good": true}
	validStressLevel  = map[string]bool{"": true, "low": true, "moderate": true, "high": true}
)

// OnboardingResult is the updated user and the program generated for them.
type OnboardingResult struct {
	User    *domain.User    `json:"user"`
	Program *domain.Program `json:"program"`
}

type ProfileService interface {
	GetMe(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// Onboard saves the profile and activates a first program. Program generation never blocks
	// onboarding: the fallback builder is used when the generator fails.
	Onboard(ctx context.Context, userID primitive.ObjectID, profile domain.Profile) (*OnboardingResult, error)
}

type profileService struct {
	userRepo       repository.UserRepository
	programService ProgramService
	now            func() time.Time
}

func NewProfileService(userRepo repository.UserRepository, programService ProgramService) ProfileService {
	return &profileService{
		userRepo:       userRepo,
		programService: programService,
		now:            time.Now,
	}
}

func (s *profileService) GetMe(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) Onboard(ctx context.Context, userID primitive.ObjectID, profile domain.Profile) (*OnboardingResult, error) {
	profile.Focus = strings.TrimSpace(profile.Focus)
	profile.SleepQuality = strings.ToLower(strings.TrimSpace(profile.SleepQuality))
	profile.StressLevel = strings.ToLower(strings.TrimSpace(profile.StressLevel))
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	now := s.now()
	profile.OnboardedAt = &now
	if err := s.userRepo.UpdateProfile(ctx, userID, &profile); err != nil {
		return nil, err
	}

	p, err := s.programService.GenerateAndActivate(ctx, userID, profile)
	if err != nil {
		log.WithField("user", userID.Hex()).Errorf("profile saved but first program could not be activated: %s", err)
		return nil, err
	}

	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &OnboardingResult{User: user, Program: p}, nil
}

func validateProfile(p domain.Profile) error {
	if !validExperience[p.Experience] {
		return fmt.Errorf("%w: experience must be beginner, intermediate or advanced", ErrValidation)
	}
	if !validGoals[p.Goal] {
		return fmt.Errorf("%w: goal must be strength, hypertrophy, general or fat_loss", ErrValidation)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("%w: daysPerWeek must be between 1 and 7", ErrValidation)
	}
	if !validSleepQuality[p.SleepQuality] {
		return fmt.Errorf("%w: sleepQuality must be poor, fair or good", ErrValidation)
	}
	if !validStressLevel[p.StressLevel] {
		return fmt.Errorf("%w: stressLevel must be low, moderate or high", ErrValidation)
	}
	return nil
}
