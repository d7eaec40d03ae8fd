package models

// NavigationBar is one entry of the site menu tree. Lft, Rght, Level and TreeID are
// nested-set fields owned by the tree rebuild.
type NavigationBar struct {
	ID       int64  `json:"id" db:"id"`
	Key      string `json:"key" db:"key" binding:"required,max=10"`
	Label    string `json:"label" db:"label" binding:"required,max=20"`
	Path     string `json:"path" db:"path" binding:"required,max=255"`
	Order    int    `json:"order" db:"order"`
	Regex    string `json:"regex" db:"regex" binding:"max=255"`
	ParentID *int64 `json:"parentId,omitempty" db:"parent_id"`
	Lft      int    `json:"lft" db:"lft"`
	Rght     int    `json:"rght" db:"rght"`
	Level    int    `json:"level" db:"level"`
	TreeID   int    `json:"treeId" db:"tree_id"`
}
