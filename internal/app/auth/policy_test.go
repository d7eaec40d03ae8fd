package auth

import "testing"

func TestCanChangeContest(t *testing.T) {
	organizers := []int64{7, 9}

	tests := []struct {
		name   string
		actor  *Actor
		owners []int64
		want   bool
	}{
		{"no capability", NewActor(1, 7), organizers, false},
		{"edit own and organizer", NewActor(1, 7, CapEditOwnContest), organizers, true},
		{"edit own, not organizer", NewActor(1, 8, CapEditOwnContest), organizers, false},
		{"edit own, list level", NewActor(1, 8, CapEditOwnContest), nil, true},
		{"edit all, not organizer", NewActor(1, 8, CapEditOwnContest, CapEditAllContest), organizers, true},
		{"edit all without edit own", NewActor(1, 8, CapEditAllContest), organizers, false},
		{"empty organizers", NewActor(1, 8, CapEditOwnContest), []int64{}, false},
		{"superuser", &Actor{IsSuperuser: true}, organizers, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanChange(tt.actor, EntityContest, tt.owners); got != tt.want {
				t.Errorf("CanChange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanChangeBlogPost(t *testing.T) {
	authors := []int64{3}

	if CanChange(NewActor(1, 3, ChangeCapability(EntityBlogPost)), EntityBlogPost, authors) {
		t.Error("change_blogpost alone should not allow editing")
	}
	if !CanChange(NewActor(1, 3, CapSeeHiddenPost), EntityBlogPost, authors) {
		t.Error("author with see_hidden_post should edit")
	}
	if CanChange(NewActor(1, 4, CapSeeHiddenPost), EntityBlogPost, authors) {
		t.Error("non-author should not edit")
	}
	if !CanChange(NewActor(1, 4, CapSeeHiddenPost), EntityBlogPost, nil) {
		t.Error("list level should be allowed with see_hidden_post")
	}
	if !CanChange(&Actor{IsSuperuser: true}, EntityBlogPost, authors) {
		t.Error("superuser should edit any post")
	}
}

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name   string
		actor  *Actor
		entity string
		want   Scope
	}{
		{"own contests", NewActor(1, 5, CapEditOwnContest), EntityContest, Scope{ProfileID: 5}},
		{"all contests", NewActor(1, 5, CapEditAllContest), EntityContest, Scope{All: true}},
		{"own organizations", NewActor(1, 5, CapChangeOrganization), EntityOrganization, Scope{ProfileID: 5}},
		{"all organizations", NewActor(1, 5, CapEditAllOrganization), EntityOrganization, Scope{All: true}},
		{"unowned entity", NewActor(1, 5), EntityJudge, Scope{All: true}},
		{"blog posts are not narrowed", NewActor(1, 5), EntityBlogPost, Scope{All: true}},
		{"superuser", &Actor{IsSuperuser: true, ProfileID: 5}, EntityContest, Scope{All: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeFor(tt.actor, tt.entity); got != tt.want {
				t.Errorf("ScopeFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	judge := NewActor(1, 1, DeleteCapability(EntityJudge))
	if !CanDelete(judge, EntityJudge, nil) {
		t.Error("delete_judge should allow deleting judges")
	}
	if CanDelete(judge, EntityLicense, nil) {
		t.Error("delete_judge should not allow deleting licenses")
	}

	organizer := NewActor(1, 2, DeleteCapability(EntityContest))
	if CanDelete(organizer, EntityContest, []int64{3}) {
		t.Error("contest outside scope should not be deletable")
	}
	if !CanDelete(organizer, EntityContest, []int64{2, 3}) {
		t.Error("own contest should be deletable")
	}
}

func TestEveryEntityHasPolicy(t *testing.T) {
	for _, entity := range Entities {
		p, ok := PolicyFor(entity)
		if !ok {
			t.Errorf("no policy for %s", entity)
			continue
		}
		if p.Entity != entity || p.Change == "" || p.Delete == "" {
			t.Errorf("incomplete policy for %s: %+v", entity, p)
		}
	}
}

func TestCatalogueHasNoDuplicates(t *testing.T) {
	seen := map[Capability]bool{}
	for _, c := range Catalogue() {
		if seen[c] {
			t.Errorf("duplicate capability %s", c)
		}
		seen[c] = true
	}
	if !seen[CapContestRating] || !seen[ChangeCapability(EntityOrganization)] {
		t.Error("catalogue is missing named capabilities")
	}
}

func TestCanAdd(t *testing.T) {
	if CanAdd(NewActor(1, 2, ChangeCapability(EntityJudge)), EntityJudge) {
		t.Error("change_judge should not allow adding")
	}
	if !CanAdd(NewActor(1, 2, AddCapability(EntityJudge)), EntityJudge) {
		t.Error("add_judge should allow adding")
	}
	if !CanAdd(&Actor{IsSuperuser: true}, EntityContest) {
		t.Error("superuser should add anything")
	}
	if CanAdd(&Actor{IsSuperuser: true}, "unknown") {
		t.Error("unknown entity should never be addable")
	}
}
