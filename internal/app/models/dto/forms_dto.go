package dto

import "github.com/yigit/judgeadmin/internal/app/models"

// MembershipForm is a change form whose multi-select is loaded from the reverse side of a relation
type MembershipForm struct {
	Object      interface{} `json:"object,omitempty"`
	Field       string      `json:"field"`
	Initial     []int64     `json:"initial"`
	DataView    string      `json:"dataView"`
	Label       string      `json:"label"`
	HelpText    string      `json:"helpText,omitempty"`
	Readonly    []string    `json:"readonlyFields,omitempty"`
	Permissions FormPerms   `json:"permissions"`
}

// FormPerms tells the client which buttons to render
type FormPerms struct {
	Change bool `json:"change"`
	Delete bool `json:"delete"`
}

// JudgeForm is the judge change form
type JudgeForm struct {
	Judge          *models.Judge `json:"judge,omitempty"`
	ReadonlyFields []string      `json:"readonlyFields"`
	Permissions    FormPerms     `json:"permissions"`
}

// OrganizationForm is the organization change form
type OrganizationForm struct {
	Organization   *models.Organization `json:"organization,omitempty"`
	ReadonlyFields []string             `json:"readonlyFields"`
	Permissions    FormPerms            `json:"permissions"`
}

// NavigationEdit is one row of a navigation change-list submission. A nil ID creates a row;
// Delete removes the row with ID.
type NavigationEdit struct {
	ID       *int64 `json:"id,omitempty"`
	Key      string `json:"key" binding:"required_without=Delete,max=10"`
	Label    string `json:"label" binding:"required_without=Delete,max=20"`
	Path     string `json:"path" binding:"required_without=Delete,max=255"`
	Order    int    `json:"order"`
	Regex    string `json:"regex" binding:"max=255"`
	ParentID *int64 `json:"parentId,omitempty"`
	Delete   bool   `json:"delete"`
}

// NavigationBatchRequest is a navigation change-list submission
type NavigationBatchRequest struct {
	Edits []NavigationEdit `json:"edits" binding:"required,min=1,dive"`
}

// NavigationBatchResponse reports how the batch was applied
type NavigationBatchResponse struct {
	Saved   int                     `json:"saved"`
	Deleted int                     `json:"deleted"`
	Rebuilt bool                    `json:"rebuilt"`
	Tree    []*models.NavigationBar `json:"tree"`
}

// OrganizationRequestUpdate is the only editable part of a join request
type OrganizationRequestUpdate struct {
	State  models.OrganizationRequestState `json:"state" binding:"required,oneof=P A R"`
	Reason string                          `json:"reason"`
}
