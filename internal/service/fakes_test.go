package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
	"github.com/alec12026-hash/rockyfit-sub000/internal/repository"
)

// In-memory repositories. Each has an err field that, when set, is returned by every method.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	stored := *user
	stored.ID = primitive.NewObjectID()
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	p := *profile
	u.Profile = &p
	return nil
}

func (r *fakeUserRepo) add(u domain.User) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = &u
	return u.ID
}

type fakeHealthRepo struct {
	mu      sync.Mutex
	samples []domain.HealthSample
	err     error
}

func (r *fakeHealthRepo) UpsertByDate(_ context.Context, sample *domain.HealthSample) (*domain.HealthSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.samples {
		if r.samples[i].UserID == sample.UserID && r.samples[i].Date == sample.Date {
			stored := *sample
			stored.ID = r.samples[i].ID
			stored.CreatedAt = r.samples[i].CreatedAt
			r.samples[i] = stored
			return &stored, nil
		}
	}
	stored := *sample
	stored.ID = primitive.NewObjectID()
	r.samples = append(r.samples, stored)
	return &stored, nil
}

func (r *fakeHealthRepo) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.HealthSample, error) {
	recent, err := r.ListRecent(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, repository.ErrNotFound
	}
	return &recent[0], nil
}

func (r *fakeHealthRepo) ListRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.HealthSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.HealthSample
	for _, s := range r.samples {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	sessions []domain.WorkoutSession
	err      error
}

func (r *fakeWorkoutRepo) Create(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	session.ID = primitive.NewObjectID()
	for i := range session.Sets {
		session.Sets[i].ID = primitive.NewObjectID()
	}
	stored := *session
	stored.Sets = append([]domain.SetEntry(nil), session.Sets...)
	r.sessions = append(r.sessions, stored)
	return session.ID, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.sessions {
		if s.ID == id && s.UserID == userID {
			cp := s
			cp.Sets = append([]domain.SetEntry(nil), s.Sets...)
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWorkoutRepo) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	all, err := r.ListSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (r *fakeWorkoutRepo) ListSince(_ context.Context, userID primitive.ObjectID, since time.Time) ([]domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.UserID == userID && !s.CompletedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (r *fakeWorkoutRepo) UpdateSets(_ context.Context, session *domain.WorkoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i := range r.sessions {
		if r.sessions[i].ID == session.ID && r.sessions[i].UserID == session.UserID {
			r.sessions[i].Sets = append([]domain.SetEntry(nil), session.Sets...)
			r.sessions[i].Volume = session.Volume
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records []domain.PersonalRecord
	err     error
}

func (r *fakeRecordRepo) Create(_ context.Context, record *domain.PersonalRecord) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	stored := *record
	stored.ID = primitive.NewObjectID()
	r.records = append(r.records, stored)
	return stored.ID, nil
}

func (r *fakeRecordRepo) GetMax(_ context.Context, userID primitive.ObjectID, exerciseName string, recordType domain.RecordType) (*domain.PersonalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var best *domain.PersonalRecord
	for i := range r.records {
		pr := r.records[i]
		if pr.UserID != userID || pr.ExerciseName != exerciseName || pr.RecordType != recordType {
			continue
		}
		if best == nil || pr.Value > best.Value {
			best = &pr
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (r *fakeRecordRepo) ListRecent(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.PersonalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.PersonalRecord
	for _, pr := range r.records {
		if pr.UserID == userID {
			out = append(out, pr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AchievedAt.After(out[j].AchievedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs []domain.Program
	err      error
	// updateErr only fails Update.
	updateErr error
}

func (r *fakeProgramRepo) CreateActive(_ context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return primitive.NilObjectID, r.err
	}
	for i := range r.programs {
		if r.programs[i].UserID == program.UserID {
			r.programs[i].IsActive = false
		}
	}
	program.ID = primitive.NewObjectID()
	program.IsActive = true
	r.programs = append(r.programs, *program)
	return program.ID, nil
}

func (r *fakeProgramRepo) GetActive(_ context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.programs {
		if p.UserID == userID && p.IsActive {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) Update(_ context.Context, program *domain.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.programs {
		if r.programs[i].ID == program.ID {
			r.programs[i] = *program
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeProgramRepo) ListActive(_ context.Context) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Program
	for _, p := range r.programs {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) activeCount(userID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.programs {
		if p.UserID == userID && p.IsActive {
			n++
		}
	}
	return n
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (s *fakeStorage) PutObject(_ context.Context, objectKey, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[objectKey] = body
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/" + objectKey + "?expires=" + expires.String(), nil
}

// spyInvalidator counts invalidations per user.
type spyInvalidator struct {
	mu    sync.Mutex
	calls map[primitive.ObjectID]int
}

func (s *spyInvalidator) Invalidate(userID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[primitive.ObjectID]int)
	}
	s.calls[userID]++
}

func (s *spyInvalidator) count(userID primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[userID]
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
