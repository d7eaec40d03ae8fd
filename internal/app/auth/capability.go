package auth

// Capability is a permission codename granted to a user directly or through a group
type Capability string

// Named capabilities checked by policies and endpoints
const (
	CapEditOwnContest      Capability = "edit_own_contest"
	CapEditAllContest      Capability = "edit_all_contest"
	CapContestRating       Capability = "contest_rating"
	CapChangeOrganization  Capability = "change_organization"
	CapEditAllOrganization Capability = "edit_all_organization"
	CapOrganizationAdmin   Capability = "organization_admin"
	CapSeeHiddenPost       Capability = "see_hidden_post"
)

// Entity names of the administered models
const (
	EntityLanguage             = "language"
	EntityProblemGroup         = "problemgroup"
	EntityProblemType          = "problemtype"
	EntityNavigationBar        = "navigationbar"
	EntityJudge                = "judge"
	EntityContestTag           = "contesttag"
	EntityContest              = "contest"
	EntityContestParticipation = "contestparticipation"
	EntityOrganization         = "organization"
	EntityBlogPost             = "blogpost"
	EntitySolution             = "solution"
	EntityLicense              = "license"
	EntityOrganizationRequest  = "organizationrequest"
	EntityMiscConfig           = "miscconfig"
)

// Entities lists every administered entity in registration order
var Entities = []string{
	EntityLanguage,
	EntityProblemGroup,
	EntityProblemType,
	EntityMiscConfig,
	EntityNavigationBar,
	EntityJudge,
	EntityContest,
	EntityContestTag,
	EntityContestParticipation,
	EntityOrganization,
	EntityBlogPost,
	EntitySolution,
	EntityLicense,
	EntityOrganizationRequest,
}

// ChangeCapability is the generic change_<entity> codename
func ChangeCapability(entity string) Capability {
	return Capability("change_" + entity)
}

// DeleteCapability is the generic delete_<entity> codename
func DeleteCapability(entity string) Capability {
	return Capability("delete_" + entity)
}

// AddCapability is the generic add_<entity> codename
func AddCapability(entity string) Capability {
	return Capability("add_" + entity)
}

// Catalogue returns every capability known to the admin, used for seeding
func Catalogue() []Capability {
	caps := []Capability{
		CapEditOwnContest,
		CapEditAllContest,
		CapContestRating,
		CapEditAllOrganization,
		CapOrganizationAdmin,
		CapSeeHiddenPost,
	}
	for _, entity := range Entities {
		caps = append(caps, AddCapability(entity), ChangeCapability(entity), DeleteCapability(entity))
	}
	return caps
}
