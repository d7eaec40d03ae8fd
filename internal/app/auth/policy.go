package auth

// Ownership names the relation that grants an actor rights over a single row
type Ownership string

const (
	OwnedByNobody     Ownership = ""
	OwnedByOrganizers Ownership = "organizers"
	OwnedByAdmins     Ownership = "admins"
	OwnedByAuthors    Ownership = "authors"
)

// Policy is the permission rule of one entity.
//
// Change is required for any write. When Owner is set, an actor without EditAll
// may only change rows whose owner relation contains its profile. NarrowList
// additionally hides rows the actor does not own from list and lookup queries.
type Policy struct {
	Entity     string
	Change     Capability
	Delete     Capability
	EditAll    Capability
	Owner      Ownership
	NarrowList bool
}

func simplePolicy(entity string) Policy {
	return Policy{
		Entity: entity,
		Change: ChangeCapability(entity),
		Delete: DeleteCapability(entity),
	}
}

// Policies is the per-entity policy table
var Policies = map[string]Policy{
	EntityLanguage:             simplePolicy(EntityLanguage),
	EntityProblemGroup:         simplePolicy(EntityProblemGroup),
	EntityProblemType:          simplePolicy(EntityProblemType),
	EntityNavigationBar:        simplePolicy(EntityNavigationBar),
	EntityJudge:                simplePolicy(EntityJudge),
	EntityContestTag:           simplePolicy(EntityContestTag),
	EntityContestParticipation: simplePolicy(EntityContestParticipation),
	EntitySolution:             simplePolicy(EntitySolution),
	EntityLicense:              simplePolicy(EntityLicense),
	EntityOrganizationRequest:  simplePolicy(EntityOrganizationRequest),
	EntityMiscConfig:           simplePolicy(EntityMiscConfig),
	EntityContest: {
		Entity:     EntityContest,
		Change:     CapEditOwnContest,
		Delete:     DeleteCapability(EntityContest),
		EditAll:    CapEditAllContest,
		Owner:      OwnedByOrganizers,
		NarrowList: true,
	},
	EntityOrganization: {
		Entity:     EntityOrganization,
		Change:     CapChangeOrganization,
		Delete:     DeleteCapability(EntityOrganization),
		EditAll:    CapEditAllOrganization,
		Owner:      OwnedByAdmins,
		NarrowList: true,
	},
	// only superusers edit posts they did not write
	EntityBlogPost: {
		Entity: EntityBlogPost,
		Change: CapSeeHiddenPost,
		Delete: DeleteCapability(EntityBlogPost),
		Owner:  OwnedByAuthors,
	},
}

// PolicyFor returns the policy of entity
func PolicyFor(entity string) (Policy, bool) {
	p, ok := Policies[entity]
	return p, ok
}

// Scope is the row set an actor may see. All is true for unrestricted access;
// otherwise only rows owned by ProfileID are visible.
type Scope struct {
	All       bool
	ProfileID int64
}

// ScopeFor returns the visible row set of entity for actor
func ScopeFor(a *Actor, entity string) Scope {
	p, ok := Policies[entity]
	if !ok || !p.NarrowList || a.IsSuperuser || (p.EditAll != "" && a.Has(p.EditAll)) {
		return Scope{All: true}
	}
	return Scope{ProfileID: a.ProfileID}
}

// CanChange reports whether actor may change a row of entity. owners is the row's
// owner relation; nil asks the list-level question.
func CanChange(a *Actor, entity string, owners []int64) bool {
	p, ok := Policies[entity]
	if !ok || a == nil {
		return false
	}
	if a.IsSuperuser {
		return true
	}
	if !a.Has(p.Change) {
		return false
	}
	if owners == nil || p.Owner == OwnedByNobody {
		return true
	}
	if p.EditAll != "" && a.Has(p.EditAll) {
		return true
	}
	return contains(owners, a.ProfileID)
}

// CanView reports whether the actor may open the change list of entity
func CanView(a *Actor, entity string) bool {
	return CanChange(a, entity, nil)
}

// CanDelete reports whether actor may delete a row of entity. Rows of
// list-narrowed entities must also be inside the actor's scope.
func CanDelete(a *Actor, entity string, owners []int64) bool {
	p, ok := Policies[entity]
	if !ok || a == nil || !a.Has(p.Delete) {
		return false
	}
	if !p.NarrowList || owners == nil || ScopeFor(a, entity).All {
		return true
	}
	return contains(owners, a.ProfileID)
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// CanAdd reports whether actor may create rows of entity
func CanAdd(a *Actor, entity string) bool {
	if _, ok := Policies[entity]; !ok || a == nil {
		return false
	}
	return a.Has(AddCapability(entity))
}
