package repositories

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
)

// recordingQuerier captures the statements Exec receives
type recordingQuerier struct {
	sql  []string
	args [][]any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = append(q.sql, sql)
	q.args = append(q.args, args)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (q *recordingQuerier) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

func (q *recordingQuerier) last(t *testing.T) (string, []any) {
	t.Helper()
	if len(q.sql) == 0 {
		t.Fatal("no statement executed")
	}
	return q.sql[len(q.sql)-1], q.args[len(q.args)-1]
}

func TestScopePredicates(t *testing.T) {
	sb := newBase(nil).sb
	tests := []struct {
		name   string
		build  func(auth.Scope) (string, []interface{}, error)
		exists string
	}{
		{
			name: "contest organizers",
			build: func(s auth.Scope) (string, []interface{}, error) {
				return inScope(sb.Select("c.id").From("contests c").Where("c.id = ?", 5), s).ToSql()
			},
			exists: "EXISTS (SELECT 1 FROM contest_organizers co WHERE co.contest_id = c.id AND co.profile_id = $2)",
		},
		{
			name: "organization admins",
			build: func(s auth.Scope) (string, []interface{}, error) {
				return adminScope(sb.Select("o.id").From("organizations o").Where("o.id = ?", 5), s).ToSql()
			},
			exists: "EXISTS (SELECT 1 FROM organization_admins oa WHERE oa.organization_id = o.id AND oa.profile_id = $2)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build(auth.Scope{ProfileID: 42})
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(sql, tt.exists) {
				t.Errorf("narrowed query %q lacks %q", sql, tt.exists)
			}
			if !reflect.DeepEqual(args, []interface{}{5, int64(42)}) {
				t.Errorf("args = %v", args)
			}

			sql, args, err = tt.build(auth.Scope{All: true})
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(sql, "EXISTS") || len(args) != 1 {
				t.Errorf("unrestricted query narrowed: %q %v", sql, args)
			}
		})
	}
}

func TestContestSetPublicHonoursScope(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewContestRepository(q)

	if _, err := repo.SetPublic(context.Background(), auth.Scope{ProfileID: 7}, []int64{1, 2}, true); err != nil {
		t.Fatal(err)
	}
	sql, args := q.last(t)
	want := "UPDATE contests c SET is_public = $1 WHERE c.id IN ($2,$3) AND EXISTS (SELECT 1 FROM contest_organizers co WHERE co.contest_id = c.id AND co.profile_id = $4)"
	if sql != want {
		t.Errorf("sql = %q\nwant  %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{true, int64(1), int64(2), int64(7)}) {
		t.Errorf("args = %v", args)
	}

	if _, err := repo.SetPublic(context.Background(), auth.Scope{All: true}, []int64{1}, false); err != nil {
		t.Fatal(err)
	}
	if sql, _ := q.last(t); strings.Contains(sql, "contest_organizers") {
		t.Errorf("unrestricted update narrowed: %q", sql)
	}
}

func TestJudgeUpdateKeepsOnlineNameInStatement(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewJudgeRepository(q)

	if err := repo.Update(context.Background(), &models.Judge{ID: 3, Name: "beta", AuthKey: "k", Description: "d"}); err != nil {
		t.Fatal(err)
	}
	sql, args := q.last(t)
	if !strings.Contains(sql, "name = CASE WHEN online THEN name ELSE $1 END") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 4 || args[0] != "beta" || args[3] != int64(3) {
		t.Errorf("args = %v", args)
	}
}

func TestRatingDeleteFromCoversEveryLaterContest(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewRatingRepository(q)
	end := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.DeleteFrom(context.Background(), &models.Contest{ID: 9, EndTime: end}); err != nil {
		t.Fatal(err)
	}
	sql, args := q.last(t)
	want := "DELETE FROM ratings WHERE contest_id IN (SELECT c.id FROM contests c WHERE (c.end_time, c.id) >= ($1, $2))"
	if sql != want {
		t.Errorf("sql = %q\nwant  %q", sql, want)
	}
	if strings.Contains(sql, "is_rated") {
		t.Errorf("delete restricted to rated contests: %q", sql)
	}
	if !reflect.DeepEqual(args, []any{end, int64(9)}) {
		t.Errorf("args = %v", args)
	}
}
