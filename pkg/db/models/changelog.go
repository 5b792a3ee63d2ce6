package models

import "time"

// ChangeAction is the kind of mutation recorded in the change log.
type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionEdit   ChangeAction = "edit"
	ActionDelete ChangeAction = "delete"
)

// ChangeLog is one append-only audit entry. Detail holds the JSON encoded
// field-level diff of the mutation.
type ChangeLog struct {
	ID        uint         `gorm:"primaryKey"                 json:"id"`
	UserID    uint         `gorm:"not null;index"             json:"user_id"`
	Tablename string       `gorm:"type:varchar(255);not null" json:"tablename"`
	Action    ChangeAction `gorm:"type:varchar(16);not null"  json:"action"`
	Detail    string       `gorm:"type:text;not null"         json:"detail"`
	Timestamp time.Time    `gorm:"not null;index"             json:"timestamp"`
}

func (ChangeLog) TableName() string {
	return "change_log"
}

func (c *ChangeLog) PrimaryKey() uint {
	return c.ID
}

func (c *ChangeLog) Columns() map[string]any {
	return map[string]any{
		"id":        c.ID,
		"user_id":   c.UserID,
		"tablename": c.Tablename,
		"action":    string(c.Action),
		"detail":    c.Detail,
		"timestamp": c.Timestamp,
	}
}
