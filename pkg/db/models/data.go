package models

// Data is one illustrative example of a Tag in a specific Language. Its
// table is the sibling of the owning category's Tag table.
type Data struct {
	Base

	TagID      uint `gorm:"not null" json:"tag_id"      validate:"required"`
	LanguageID uint `gorm:"not null" json:"language_id" validate:"required"`

	Example             string     `gorm:"type:text"                 json:"example,omitempty"`
	IsoTransliteration  string     `gorm:"type:text"                 json:"iso_transliteration,omitempty"`
	SanskritTranslation string     `gorm:"type:text"                 json:"sanskrit_translation,omitempty"`
	EnglishTranslation  string     `gorm:"type:text"                 json:"english_translation,omitempty"`
	Explanation         string     `gorm:"type:text"                 json:"explanation,omitempty"`
	Extra               Attributes `gorm:"type:text;serializer:json" json:"extra,omitempty"`
}

func (d *Data) Columns() map[string]any {
	cols := d.columns()
	cols["tag_id"] = d.TagID
	cols["language_id"] = d.LanguageID
	cols["example"] = d.Example
	cols["iso_transliteration"] = d.IsoTransliteration
	cols["sanskrit_translation"] = d.SanskritTranslation
	cols["english_translation"] = d.EnglishTranslation
	cols["explanation"] = d.Explanation
	d.Extra.flatten(cols)
	return cols
}
