package models

import "time"

// CommentAction classifies a user suggestion.
type CommentAction string

const (
	CommentGeneric       CommentAction = "generic"
	CommentSuggestCreate CommentAction = "suggest_create"
	CommentSuggestEdit   CommentAction = "suggest_edit"
	CommentSuggestDelete CommentAction = "suggest_delete"
)

// Comment is user-submitted feedback on a table. Comments are append-only.
type Comment struct {
	ID        uint          `gorm:"primaryKey"                     json:"id"`
	UserID    uint          `gorm:"not null;index"                 json:"user_id"`
	Tablename string        `gorm:"type:varchar(255);not null"     json:"tablename" validate:"required,max=255"`
	Action    CommentAction `gorm:"type:varchar(32);not null"      json:"action"    validate:"required,oneof=generic suggest_create suggest_edit suggest_delete"`
	Comment   string        `gorm:"type:text"                      json:"comment,omitempty"`
	Detail    string        `gorm:"type:text"                      json:"detail,omitempty"`
	Timestamp time.Time     `gorm:"not null;index"                 json:"timestamp"`
}

func (Comment) TableName() string {
	return "comment"
}

func (c *Comment) PrimaryKey() uint {
	return c.ID
}

func (c *Comment) Columns() map[string]any {
	return map[string]any{
		"id":        c.ID,
		"user_id":   c.UserID,
		"tablename": c.Tablename,
		"action":    string(c.Action),
		"comment":   c.Comment,
		"detail":    c.Detail,
		"timestamp": c.Timestamp,
	}
}
