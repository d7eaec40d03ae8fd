package models

import "time"

// Organization groups profiles under a set of admins
type Organization struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required,max=128"`
	Key          string    `json:"key" db:"key" binding:"required,entitykey,max=6"`
	ShortName    string    `json:"shortName" db:"short_name" binding:"required,max=20"`
	IsOpen       bool      `json:"isOpen" db:"is_open"`
	About        string    `json:"about" db:"about"`
	Slots        *int      `json:"slots,omitempty" db:"slots"`
	RegistrantID int64     `json:"registrant" db:"registrant_id" binding:"required"`
	CreationDate time.Time `json:"creationDate" db:"creation_date"`
	AdminIDs     []int64   `json:"admins" db:"-"`
}

// IsAdmin reports whether profileID administers the organization
func (o *Organization) IsAdmin(profileID int64) bool {
	for _, id := range o.AdminIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// OrganizationRequestState is the review state of a join request
type OrganizationRequestState string

const (
	RequestPending  OrganizationRequestState = "P"
	RequestApproved OrganizationRequestState = "A"
	RequestRejected OrganizationRequestState = "R"
)

// Valid reports whether s is a known state
func (s OrganizationRequestState) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// OrganizationRequest asks for membership in a closed organization
type OrganizationRequest struct {
	ID             int64                    `json:"id" db:"id"`
	ProfileID      int64                    `json:"user" db:"profile_id"`
	OrganizationID int64                    `json:"organization" db:"organization_id"`
	State          OrganizationRequestState `json:"state" db:"state"`
	Time           time.Time                `json:"time" db:"time"`
	Reason         string                   `json:"reason" db:"reason"`
	Username       string                   `json:"username,omitempty" db:"username"`
}
