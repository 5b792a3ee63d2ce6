package models

// Tag is one value of a category's controlled vocabulary. Every category
// stores its tags in its own table, so the table name is chosen per query.
type Tag struct {
	Base

	Code        string     `gorm:"type:varchar(255);not null" json:"code"                   validate:"required,max=255"`
	Tag         string     `gorm:"type:varchar(255);not null" json:"tag"                    validate:"required,max=255"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"                   validate:"required,max=255"`
	EnglishName string     `gorm:"type:varchar(255)"          json:"english_name,omitempty" validate:"max=255"`
	Description string     `gorm:"type:text"                  json:"description,omitempty"`
	Extra       Attributes `gorm:"type:text;serializer:json"  json:"extra,omitempty"`
}

// Columns flattens the extension attributes next to the core columns.
func (t *Tag) Columns() map[string]any {
	cols := t.columns()
	cols["code"] = t.Code
	cols["tag"] = t.Tag
	cols["name"] = t.Name
	cols["english_name"] = t.EnglishName
	cols["description"] = t.Description
	t.Extra.flatten(cols)
	return cols
}
