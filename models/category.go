package models

// Category is a per-user dictionary entry naming an expense category.
// Rows are created lazily on first use and are unique on (user_key, name).
// A rename that collides with an existing name is merged, never failed.
type Category struct {
	// ID is the unique identifier of the dictionary row. The lowest ID wins
	// when duplicate rows are collapsed during a rename merge.
	ID int64 `json:"id"`

	// UserKey is the owner of this dictionary entry.
	UserKey int64 `json:"user_key"`

	// Name is the category name. Mutable via correction.
	Name string `json:"name"`
}

// TableName returns the name of the database table
// associated with the Category model.
func (c Category) TableName() string {
	return "categories"
}

// Subcategory is a per-user dictionary entry naming a product or service
// inside one category. Unique on (user_key, category_id, name): the same
// subcategory name may exist under different categories.
type Subcategory struct {
	ID         int64  `json:"id"`
	UserKey    int64  `json:"user_key"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// TableName returns the name of the database table
// associated with the Subcategory model.
func (s Subcategory) TableName() string {
	return "subcategories"
}
