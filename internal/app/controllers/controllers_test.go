package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/app/services"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withActor stands in for JWTAuth and ActorLoader
func withActor(actor *auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fakeRatingStore struct {
	deleted int
	saved   int
}

func (f *fakeRatingStore) DeleteAll(_ context.Context) error {
	f.deleted++
	return nil
}

func (f *fakeRatingStore) DeleteFrom(_ context.Context, _ *models.Contest) error {
	f.deleted++
	return nil
}

func (f *fakeRatingStore) ResetProfilesToLatest(_ context.Context) error { return nil }

func (f *fakeRatingStore) Participants(_ context.Context, _ int64) ([]*repositories.RatingParticipant, error) {
	return []*repositories.RatingParticipant{
		{ParticipationID: 1, ProfileID: 1, Score: 10, Submissions: 1},
		{ParticipationID: 2, ProfileID: 2, Score: 5, Submissions: 1},
	}, nil
}

func (f *fakeRatingStore) PreviousRatings(_ context.Context, _ *models.Contest, _ []int64) (map[int64]int, error) {
	return map[int64]int{}, nil
}

func (f *fakeRatingStore) Save(_ context.Context, ratings []*models.Rating) error {
	f.saved += len(ratings)
	return nil
}

type fakeRatedContests map[int64]*models.Contest

func (f fakeRatedContests) GetByID(_ context.Context, _ auth.Scope, id int64) (*models.Contest, error) {
	c, ok := f[id]
	if !ok {
		return nil, apperrors.ErrContestNotFound
	}
	return c, nil
}

func (f fakeRatedContests) ListRated(_ context.Context, _ *models.Contest) ([]*models.Contest, error) {
	var out []*models.Contest
	for _, c := range f {
		if c.IsRated {
			out = append(out, c)
		}
	}
	return out, nil
}

func newRatingRouter(actor *auth.Actor, store *fakeRatingStore) *gin.Engine {
	contests := fakeRatedContests{
		1: {ID: 1, IsRated: true},
		5: {ID: 5},
	}
	ratings := services.NewRatingService(fakeTx{}, store, contests, services.NewEloCalculator(store, 1200))
	cc := NewContestController(nil, ratings, 50)

	r := gin.New()
	g := r.Group("/api/v1/admin", withActor(actor))
	methods := []string{http.MethodGet, http.MethodPost}
	g.Match(methods, "/contests/rate/all", cc.RateAll)
	g.Match(methods, "/contests/:id/rate", cc.Rate)
	return r
}

func TestRateAllForbiddenLeavesRatings(t *testing.T) {
	store := &fakeRatingStore{}
	r := newRatingRouter(auth.NewActor(1, 10, auth.CapEditAllContest), store)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/admin/contests/rate/all", nil))
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want 403", method, w.Code)
		}
	}
	if store.deleted != 0 || store.saved != 0 {
		t.Errorf("ratings touched: deleted=%d saved=%d", store.deleted, store.saved)
	}
}

func TestRateRedirects(t *testing.T) {
	rater := auth.NewActor(1, 10, auth.CapContestRating)
	tests := []struct {
		name     string
		method   string
		path     string
		referer  string
		status   int
		location string
	}{
		{"rate all back to referer", http.MethodPost, "/api/v1/admin/contests/rate/all", "/api/v1/admin/contests?page=2", http.StatusFound, "/api/v1/admin/contests?page=2"},
		{"rate all to list", http.MethodGet, "/api/v1/admin/contests/rate/all", "", http.StatusFound, ContestListPath},
		{"rate from contest", http.MethodPost, "/api/v1/admin/contests/1/rate", "", http.StatusFound, ContestListPath},
		{"contest not rated", http.MethodGet, "/api/v1/admin/contests/5/rate", "", http.StatusNotFound, ""},
		{"missing contest", http.MethodGet, "/api/v1/admin/contests/9/rate", "", http.StatusNotFound, ""},
		{"bad id", http.MethodGet, "/api/v1/admin/contests/abc/rate", "", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeRatingStore{}
			r := newRatingRouter(rater, store)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.location != "" && w.Header().Get("Location") != tt.location {
				t.Errorf("Location = %q, want %q", w.Header().Get("Location"), tt.location)
			}
			if tt.status == http.StatusFound && store.saved != 2 {
				t.Errorf("saved %d ratings, want 2", store.saved)
			}
		})
	}
}

type fakeContestActions struct {
	public map[int64]bool
}

func (f *fakeContestActions) SetPublic(_ context.Context, _ *auth.Actor, ids []int64, public bool) (int, error) {
	for _, id := range ids {
		f.public[id] = public
	}
	return len(ids), nil
}

type fakeParticipationActions struct{}

func (fakeParticipationActions) RecalculateScores(_ context.Context, _ *auth.Actor, ids []int64) (int, error) {
	return len(ids), nil
}

func (fakeParticipationActions) RecalculateCumtime(_ context.Context, _ *auth.Actor, ids []int64) (int, error) {
	return len(ids), nil
}

func newAdminRouter(t *testing.T, actor *auth.Actor, contests *fakeContestActions) *gin.Engine {
	t.Helper()
	site, err := admin.NewDefaultSite(contests, fakeParticipationActions{})
	if err != nil {
		t.Fatalf("NewDefaultSite: %v", err)
	}
	ac := NewAdminController(site, nil)
	r := gin.New()
	g := r.Group("/api/v1/admin", withActor(actor))
	g.GET("", ac.Index)
	for _, d := range site.Descriptors() {
		g.GET("/"+d.Path+"/meta", ac.Meta(d.Entity))
		g.POST("/"+d.Path+"/actions/:action", ac.RunAction(d.Entity))
	}
	return r
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunActionMakePublic(t *testing.T) {
	contests := &fakeContestActions{public: map[int64]bool{}}
	r := newAdminRouter(t, auth.NewActor(1, 10, auth.CapEditOwnContest), contests)

	w := postJSON(r, "/api/v1/admin/contests/actions/make_public", dto.ActionRequest{IDs: []int64{4, 5, 6}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string             `json:"message"`
		Data    dto.ActionResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "3 contests successfully marked as public." || resp.Data.Count != 3 {
		t.Errorf("response = %+v", resp)
	}
	if !contests.public[4] || !contests.public[6] {
		t.Errorf("contests not marked: %v", contests.public)
	}

	w = postJSON(r, "/api/v1/admin/contests/actions/make_private", dto.ActionRequest{IDs: []int64{4}})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message != "1 contest successfully marked as private." {
		t.Errorf("singular message = %q", resp.Message)
	}
}

func TestRunActionErrors(t *testing.T) {
	contests := &fakeContestActions{public: map[int64]bool{}}
	tests := []struct {
		name   string
		actor  *auth.Actor
		path   string
		body   interface{}
		status int
	}{
		{"unknown action", auth.NewActor(1, 10, auth.CapEditOwnContest), "/api/v1/admin/contests/actions/explode", dto.ActionRequest{IDs: []int64{1}}, http.StatusNotFound},
		{"empty selection", auth.NewActor(1, 10, auth.CapEditOwnContest), "/api/v1/admin/contests/actions/make_public", dto.ActionRequest{}, http.StatusBadRequest},
		{"no change right", auth.NewActor(1, 10), "/api/v1/admin/contests/actions/make_public", dto.ActionRequest{IDs: []int64{1}}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newAdminRouter(t, tt.actor, contests), tt.path, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
	if len(contests.public) != 0 {
		t.Errorf("failed actions changed contests: %v", contests.public)
	}
}

func TestIndexListsVisibleEntities(t *testing.T) {
	actor := auth.NewActor(1, 10, auth.ChangeCapability(auth.EntityJudge), auth.DeleteCapability(auth.EntityJudge))
	r := newAdminRouter(t, actor, &fakeContestActions{public: map[int64]bool{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil))
	var resp struct {
		Data []dto.AdminEntry `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Path != "judges" || !resp.Data[0].Permissions.Delete || resp.Data[0].Permissions.Add {
		t.Errorf("index = %+v", resp.Data)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/contests/meta", nil))
	if w.Code != http.StatusForbidden {
		t.Errorf("contest meta status = %d, want 403", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/judges/meta", nil))
	if w.Code != http.StatusOK {
		t.Errorf("judge meta status = %d, want 200", w.Code)
	}
}
