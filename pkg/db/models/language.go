package models

// Language scopes every Data row to the language its example is written in.
type Language struct {
	Base

	Code        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"code"         validate:"required,max=255"`
	Name        string `gorm:"type:varchar(255);not null"             json:"name"         validate:"required,max=255"`
	EnglishName string `gorm:"type:varchar(255);not null"             json:"english_name" validate:"required,max=255"`
}

func (Language) TableName() string {
	return "language"
}

func (l *Language) Columns() map[string]any {
	cols := l.columns()
	cols["code"] = l.Code
	cols["name"] = l.Name
	cols["english_name"] = l.EnglishName
	return cols
}
