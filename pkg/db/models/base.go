package models

// Record is a persisted row managed by the soft-delete store.
type Record interface {
	PrimaryKey() uint
	SetPrimaryKey(id uint)
	Deleted() bool
	SetDeleted(deleted bool)

	// Columns returns every persisted scalar column keyed by column name.
	Columns() map[string]any
}

// Sensitive is implemented by records holding columns that must never be
// written to the change log or projected in cleartext.
type Sensitive interface {
	SensitiveColumns() []string
}

// Base carries the identity and soft-delete flag shared by every mutable record.
type Base struct {
	ID        uint `gorm:"primaryKey"             json:"id"`
	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`
}

func (b *Base) PrimaryKey() uint {
	return b.ID
}

func (b *Base) SetPrimaryKey(id uint) {
	b.ID = id
}

func (b *Base) Deleted() bool {
	return b.IsDeleted
}

func (b *Base) SetDeleted(deleted bool) {
	b.IsDeleted = deleted
}

func (b *Base) columns() map[string]any {
	return map[string]any{
		"id":         b.ID,
		"is_deleted": b.IsDeleted,
	}
}
