package repositories

import "github.com/yigit/judgeadmin/internal/db"

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository                *UserRepository
	ProfileRepository             *ProfileRepository
	ProblemRepository             *ProblemRepository
	LanguageRepository            *LanguageRepository
	ProblemGroupRepository        *ProblemSetRepository
	ProblemTypeRepository         *ProblemSetRepository
	MiscConfigRepository          *MiscConfigRepository
	NavigationRepository          *NavigationRepository
	JudgeRepository               *JudgeRepository
	ContestRepository             *ContestRepository
	ContestTagRepository          *ContestTagRepository
	ParticipationRepository       *ParticipationRepository
	RatingRepository              *RatingRepository
	OrganizationRepository        *OrganizationRepository
	OrganizationRequestRepository *OrganizationRequestRepository
	BlogPostRepository            *BlogPostRepository
	SolutionRepository            *SolutionRepository
	LicenseRepository             *LicenseRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Querier) *Repositories {
	return &Repositories{
		UserRepository:                NewUserRepository(pool),
		ProfileRepository:             NewProfileRepository(pool),
		ProblemRepository:             NewProblemRepository(pool),
		LanguageRepository:            NewLanguageRepository(pool),
		ProblemGroupRepository:        NewProblemGroupRepository(pool),
		ProblemTypeRepository:         NewProblemTypeRepository(pool),
		MiscConfigRepository:          NewMiscConfigRepository(pool),
		NavigationRepository:          NewNavigationRepository(pool),
		JudgeRepository:               NewJudgeRepository(pool),
		ContestRepository:             NewContestRepository(pool),
		ContestTagRepository:          NewContestTagRepository(pool),
		ParticipationRepository:       NewParticipationRepository(pool),
		RatingRepository:              NewRatingRepository(pool),
		OrganizationRepository:        NewOrganizationRepository(pool),
		OrganizationRequestRepository: NewOrganizationRequestRepository(pool),
		BlogPostRepository:            NewBlogPostRepository(pool),
		SolutionRepository:            NewSolutionRepository(pool),
		LicenseRepository:             NewLicenseRepository(pool),
	}
}
