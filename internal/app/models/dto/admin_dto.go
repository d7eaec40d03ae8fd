package dto

// LoginRequest is the admin sign-in payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// ActionRequest selects the rows a bulk action runs over
type ActionRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// ActionResponse reports the outcome of a bulk action
type ActionResponse struct {
	Action  string `json:"action"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Select2Item is one result of a remote search widget
type Select2Item struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Select2Response mirrors the select2 ajax result format
type Select2Response struct {
	Results []Select2Item `json:"results"`
	More    bool          `json:"more"`
}

// RegenerateKeyResponse returns a freshly generated judge key
type RegenerateKeyResponse struct {
	AuthKey string `json:"authKey"`
}

// EntityPermissions are the list-level rights of the actor on an entity
type EntityPermissions struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Change bool `json:"change"`
	Delete bool `json:"delete"`
}

// AdminEntry is one entity on the admin index
type AdminEntry struct {
	Entity            string            `json:"entity"`
	Path              string            `json:"path"`
	VerboseNamePlural string            `json:"verboseNamePlural"`
	Permissions       EntityPermissions `json:"permissions"`
}

// AdminMeta is an entity descriptor together with the actor's rights on it
type AdminMeta struct {
	Descriptor  interface{}       `json:"descriptor"`
	Permissions EntityPermissions `json:"permissions"`
}
