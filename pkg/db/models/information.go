package models

// Level groups categories for end users.
type Level string

const (
	LevelSentence Level = "Sentence"
	LevelWord     Level = "Word"
)

// TagInformation advertises a category to end users. Hiding a category only
// flips IsVisible; its Tag and Data rows stay untouched.
type TagInformation struct {
	Base

	Tablename   string `gorm:"type:varchar(255);not null;uniqueIndex" json:"tablename"    validate:"required,max=255"`
	Name        string `gorm:"type:varchar(255);not null"             json:"name"         validate:"required,max=255"`
	EnglishName string `gorm:"type:varchar(255);not null"             json:"english_name" validate:"required,max=255"`
	Level       Level  `gorm:"type:varchar(16);not null"              json:"level"        validate:"required,oneof=Sentence Word"`
	IsVisible   bool   `gorm:"not null"                               json:"is_visible"`
}

func (TagInformation) TableName() string {
	return "tag_information"
}

func (ti *TagInformation) Columns() map[string]any {
	cols := ti.columns()
	cols["tablename"] = ti.Tablename
	cols["name"] = ti.Name
	cols["english_name"] = ti.EnglishName
	cols["level"] = string(ti.Level)
	cols["is_visible"] = ti.IsVisible
	return cols
}
