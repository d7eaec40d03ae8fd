package services

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// fakeRatingStore keeps rating history in memory. Previous ratings come from contests
// that ended earlier.
type fakeRatingStore struct {
	ratings      []*models.Rating
	participants map[int64][]*repositories.RatingParticipant
	deleteAll    int
}

func (f *fakeRatingStore) DeleteAll(_ context.Context) error {
	f.deleteAll++
	f.ratings = nil
	return nil
}

func (f *fakeRatingStore) DeleteFrom(_ context.Context, from *models.Contest) error {
	kept := f.ratings[:0]
	for _, r := range f.ratings {
		if r.LastRated.Before(from.EndTime) || (r.LastRated.Equal(from.EndTime) && r.ContestID < from.ID) {
			kept = append(kept, r)
		}
	}
	f.ratings = kept
	return nil
}

func (f *fakeRatingStore) ResetProfilesToLatest(_ context.Context) error { return nil }

func (f *fakeRatingStore) Participants(_ context.Context, contestID int64) ([]*repositories.RatingParticipant, error) {
	return f.participants[contestID], nil
}

func (f *fakeRatingStore) PreviousRatings(_ context.Context, c *models.Contest, profileIDs []int64) (map[int64]int, error) {
	latest := map[int64]*models.Rating{}
	for _, r := range f.ratings {
		if !r.LastRated.Before(c.EndTime) {
			continue
		}
		if cur, ok := latest[r.ProfileID]; !ok || r.LastRated.After(cur.LastRated) {
			latest[r.ProfileID] = r
		}
	}
	out := map[int64]int{}
	for _, id := range profileIDs {
		if r, ok := latest[id]; ok {
			out[id] = r.Rating
		}
	}
	return out, nil
}

func (f *fakeRatingStore) Save(_ context.Context, ratings []*models.Rating) error {
	f.ratings = append(f.ratings, ratings...)
	return nil
}

func (f *fakeRatingStore) snapshot() []models.Rating {
	out := make([]models.Rating, 0, len(f.ratings))
	for _, r := range f.ratings {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContestID != out[j].ContestID {
			return out[i].ContestID < out[j].ContestID
		}
		return out[i].ProfileID < out[j].ProfileID
	})
	return out
}

type fakeRatedContests struct {
	contests []*models.Contest
}

func (f *fakeRatedContests) GetByID(_ context.Context, _ auth.Scope, id int64) (*models.Contest, error) {
	for _, c := range f.contests {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrContestNotFound
}

func (f *fakeRatedContests) ListRated(_ context.Context, from *models.Contest) ([]*models.Contest, error) {
	var out []*models.Contest
	for _, c := range f.contests {
		if !c.IsRated {
			continue
		}
		if from != nil && (c.EndTime.Before(from.EndTime) || (c.EndTime.Equal(from.EndTime) && c.ID < from.ID)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func newRatingFixture() (*fakeRatingStore, *fakeRatedContests) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	contests := &fakeRatedContests{contests: []*models.Contest{
		{ID: 1, IsRated: true, EndTime: base},
		{ID: 2, IsRated: false, EndTime: base.Add(24 * time.Hour)},
		{ID: 3, IsRated: true, EndTime: base.Add(48 * time.Hour), RateExcludeIDs: []int64{104}},
		{ID: 4, IsRated: true, RateAll: true, EndTime: base.Add(72 * time.Hour)},
	}}
	part := func(pid, profile int64, score float64, cumtime int64, subs int) *repositories.RatingParticipant {
		return &repositories.RatingParticipant{ParticipationID: pid, ProfileID: profile, Score: score, Cumtime: cumtime, Submissions: subs}
	}
	store := &fakeRatingStore{participants: map[int64][]*repositories.RatingParticipant{
		1: {part(1, 101, 300, 50, 4), part(2, 102, 200, 40, 3), part(3, 103, 0, 0, 0)},
		3: {part(4, 101, 100, 90, 2), part(5, 102, 250, 80, 5), part(6, 103, 250, 80, 1), part(7, 104, 400, 10, 6)},
		4: {part(8, 101, 0, 0, 0), part(9, 103, 50, 20, 1)},
	}}
	return store, contests
}

func TestRateAllRequiresCapability(t *testing.T) {
	store, contests := newRatingFixture()
	store.ratings = []*models.Rating{{ProfileID: 101, ContestID: 1, Rating: 1600}}
	svc := NewRatingService(&fakeTx{}, store, contests, NewEloCalculator(store, 1500))

	actor := auth.NewActor(1, 10, auth.CapEditAllContest)
	if _, err := svc.RateAll(context.Background(), actor); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want permission denied", err)
	}
	if _, err := svc.RateFrom(context.Background(), actor, 1); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("RateFrom: got %v, want permission denied", err)
	}
	if store.deleteAll != 0 || len(store.ratings) != 1 || store.ratings[0].Rating != 1600 {
		t.Errorf("ratings changed: %+v", store.ratings)
	}
}

func TestRateFromUnratedContest(t *testing.T) {
	store, contests := newRatingFixture()
	svc := NewRatingService(&fakeTx{}, store, contests, NewEloCalculator(store, 1500))
	actor := auth.NewActor(1, 10, auth.CapContestRating)

	if _, err := svc.RateFrom(context.Background(), actor, 2); !errors.Is(err, apperrors.ErrContestNotRated) {
		t.Errorf("unrated: got %v", err)
	}
	if _, err := svc.RateFrom(context.Background(), actor, 99); !errors.Is(err, apperrors.ErrContestNotFound) {
		t.Errorf("missing: got %v", err)
	}
}

func TestRateAll(t *testing.T) {
	store, contests := newRatingFixture()
	tx := &fakeTx{}
	svc := NewRatingService(tx, store, contests, NewEloCalculator(store, 1500))

	n, err := svc.RateAll(context.Background(), auth.NewActor(1, 10, auth.CapContestRating))
	if err != nil {
		t.Fatalf("RateAll: %v", err)
	}
	if n != 3 || tx.calls != 1 || store.deleteAll != 1 {
		t.Errorf("rated %d contests in %d transactions", n, tx.calls)
	}

	perContest := map[int64][]int64{}
	for _, r := range store.snapshot() {
		perContest[r.ContestID] = append(perContest[r.ContestID], r.ProfileID)
	}
	want := map[int64][]int64{
		// 103 made no submissions
		1: {101, 102},
		// 104 is excluded
		3: {101, 102, 103},
		// rate_all counts 101 without submissions
		4: {101, 103},
	}
	if !reflect.DeepEqual(perContest, want) {
		t.Errorf("rated profiles = %v, want %v", perContest, want)
	}

	for _, r := range store.snapshot() {
		if r.ContestID == 3 && (r.ProfileID == 102 || r.ProfileID == 103) && r.Rank != 1 {
			t.Errorf("tied profile %d has rank %d", r.ProfileID, r.Rank)
		}
	}
}

func TestRateFromMatchesRateAll(t *testing.T) {
	store, contests := newRatingFixture()
	svc := NewRatingService(&fakeTx{}, store, contests, NewEloCalculator(store, 1500))
	actor := auth.NewActor(1, 10, auth.CapContestRating)
	ctx := context.Background()

	if _, err := svc.RateAll(ctx, actor); err != nil {
		t.Fatalf("RateAll: %v", err)
	}
	full := store.snapshot()

	// corrupt the tail and recompute it
	for _, r := range store.ratings {
		if r.ContestID >= 3 {
			r.Rating = 0
		}
	}
	n, err := svc.RateFrom(ctx, actor, 3)
	if err != nil {
		t.Fatalf("RateFrom: %v", err)
	}
	if n != 2 {
		t.Errorf("RateFrom rated %d contests, want 2", n)
	}
	if got := store.snapshot(); !reflect.DeepEqual(got, full) {
		t.Errorf("partial recompute differs:\n got %+v\nwant %+v", got, full)
	}
}

func TestRateFromDropsRatingsOfUnratedLaterContests(t *testing.T) {
	ctx := context.Background()
	actor := auth.NewActor(1, 10, auth.CapContestRating)

	cleanStore, cleanContests := newRatingFixture()
	if _, err := NewRatingService(&fakeTx{}, cleanStore, cleanContests, NewEloCalculator(cleanStore, 1500)).RateAll(ctx, actor); err != nil {
		t.Fatalf("RateAll: %v", err)
	}

	store, contests := newRatingFixture()
	// contest 2 was rated once and then unmarked
	store.ratings = []*models.Rating{{ProfileID: 101, ContestID: 2, Rating: 1900, LastRated: contests.contests[1].EndTime}}
	if _, err := NewRatingService(&fakeTx{}, store, contests, NewEloCalculator(store, 1500)).RateFrom(ctx, actor, 1); err != nil {
		t.Fatalf("RateFrom: %v", err)
	}
	for _, r := range store.ratings {
		if r.ContestID == 2 {
			t.Fatalf("rating of unrated contest 2 survived: %+v", *r)
		}
	}
	if got, want := store.snapshot(), cleanStore.snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("stale row leaked into history:\n got %+v\nwant %+v", got, want)
	}
}
