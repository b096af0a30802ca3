package program

import (
	"context"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

//go:generate mockgen -source=$GOFILE -destination=../service/mocks_generator_test.go -package=service

// Generator builds a program from a profile. customStructure, when not empty, is the weekly
// split the user asked for. Implementations call out to an external service and may fail;
// callers fall back to BuildFallback.
type Generator interface {
	Generate(ctx context.Context, profile domain.Profile, customStructure string) (*domain.Program, error)
}
