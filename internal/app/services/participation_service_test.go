package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

var contestStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func sub(id, problem int64, points float64, after time.Duration) *models.ContestSubmission {
	return &models.ContestSubmission{ID: id, ParticipationID: 1, ContestProblemID: problem, Points: points, SubmittedAt: contestStart.Add(after)}
}

func TestComputeScoreAndCumtime(t *testing.T) {
	subs := []*models.ContestSubmission{
		sub(1, 10, 30, 5*time.Minute),
		sub(2, 10, 100, 20*time.Minute),
		sub(3, 10, 100, 40*time.Minute),
		sub(4, 11, 0, 10*time.Minute),
		sub(5, 12, 50, 30*time.Second),
	}
	if got := ComputeScore(subs); got != 150 {
		t.Errorf("score = %v, want 150", got)
	}
	// first best on problem 10 at 20m, problem 12 at 30s, problem 11 never scored
	if got := ComputeCumtime(contestStart, subs); got != 20*60+30 {
		t.Errorf("cumtime = %d, want %d", got, 20*60+30)
	}
	if ComputeScore(nil) != 0 || ComputeCumtime(contestStart, nil) != 0 {
		t.Error("empty submissions should score zero")
	}
}

type fakeParticipationStore struct {
	items      map[int64]*models.ContestParticipation
	subs       map[int64][]*models.ContestSubmission
	scoreSaves int
}

func (f *fakeParticipationStore) List(_ context.Context, _ repositories.ParticipationFilter) ([]*models.ContestParticipation, int64, error) {
	return nil, 0, nil
}

func (f *fakeParticipationStore) GetByID(_ context.Context, id int64) (*models.ContestParticipation, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return p, nil
}

func (f *fakeParticipationStore) GetMany(_ context.Context, ids []int64) ([]*models.ContestParticipation, error) {
	var out []*models.ContestParticipation
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeParticipationStore) Create(_ context.Context, p *models.ContestParticipation) (int64, error) {
	id := int64(len(f.items) + 1)
	f.items[id] = p
	return id, nil
}

func (f *fakeParticipationStore) Update(_ context.Context, p *models.ContestParticipation) error {
	f.items[p.ID] = p
	return nil
}

func (f *fakeParticipationStore) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeParticipationStore) Submissions(_ context.Context, ids []int64) (map[int64][]*models.ContestSubmission, error) {
	out := map[int64][]*models.ContestSubmission{}
	for _, id := range ids {
		out[id] = f.subs[id]
	}
	return out, nil
}

func (f *fakeParticipationStore) SaveScores(_ context.Context, items []*models.ContestParticipation) error {
	f.scoreSaves++
	for _, p := range items {
		f.items[p.ID].Score = p.Score
	}
	return nil
}

func (f *fakeParticipationStore) SaveCumtimes(_ context.Context, items []*models.ContestParticipation) error {
	for _, p := range items {
		f.items[p.ID].Cumtime = p.Cumtime
	}
	return nil
}

func newParticipationFixture() *fakeParticipationStore {
	return &fakeParticipationStore{
		items: map[int64]*models.ContestParticipation{
			1: {ID: 1, ContestID: 1, ProfileID: 5, RealStart: contestStart, Score: 999, Cumtime: 999},
			2: {ID: 2, ContestID: 1, ProfileID: 6, RealStart: contestStart},
		},
		subs: map[int64][]*models.ContestSubmission{
			1: {sub(1, 10, 40, time.Minute), sub(2, 11, 60, 2*time.Minute)},
		},
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	store := newParticipationFixture()
	svc := NewParticipationService(&fakeTx{}, store)
	actor := actorWith(auth.EntityContestParticipation)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := svc.RecalculateScores(ctx, actor, []int64{1, 2, 404})
		if err != nil {
			t.Fatalf("RecalculateScores: %v", err)
		}
		if n != 2 {
			t.Errorf("recalculated %d rows, want 2", n)
		}
		if _, err := svc.RecalculateCumtime(ctx, actor, []int64{1, 2}); err != nil {
			t.Fatalf("RecalculateCumtime: %v", err)
		}
		if p := store.items[1]; p.Score != 100 || p.Cumtime != 180 {
			t.Errorf("pass %d: participation 1 = score %v cumtime %d", i, p.Score, p.Cumtime)
		}
		if p := store.items[2]; p.Score != 0 || p.Cumtime != 0 {
			t.Errorf("pass %d: participation 2 = score %v cumtime %d", i, p.Score, p.Cumtime)
		}
	}
}

func TestRecalculateRequiresSelectionAndPermission(t *testing.T) {
	store := newParticipationFixture()
	svc := NewParticipationService(&fakeTx{}, store)

	if _, err := svc.RecalculateScores(context.Background(), actorWith(auth.EntityContestParticipation), nil); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("empty selection: got %v", err)
	}
	if _, err := svc.RecalculateScores(context.Background(), auth.NewActor(2, 20), []int64{1}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("no permission: got %v", err)
	}
	if store.scoreSaves != 0 {
		t.Errorf("scores saved %d times", store.scoreSaves)
	}
}

func TestParticipationCreateValidates(t *testing.T) {
	svc := NewParticipationService(&fakeTx{}, newParticipationFixture())
	actor := actorWith(auth.EntityContestParticipation)

	if _, err := svc.Create(context.Background(), actor, &models.ContestParticipation{ContestID: 1, ProfileID: 5, Virtual: -1}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("negative virtual: got %v", err)
	}
	p := &models.ContestParticipation{ContestID: 1, ProfileID: 7}
	if _, err := svc.Create(context.Background(), actor, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.RealStart.IsZero() {
		t.Error("real start not defaulted")
	}
}
