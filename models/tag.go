package models

import "time"

// Tag is a user-defined label definition.
// Collection: tags
type Tag struct {
	ID           int64     `bson:"_id" json:"id"`
	UserID       string    `bson:"user_id" json:"user_id"`
	TagName      string    `bson:"tag_name" json:"tag_name"`
	Name         string    `bson:"name" json:"name"`
	Aliases      []string  `bson:"aliases" json:"aliases"`
	Description  string    `bson:"description" json:"description"`
	DisplayOrder int       `bson:"display_order" json:"display_order"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	IsSendAI     bool      `bson:"is_send_ai" json:"is_send_ai"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// TagOrder is one entry of a bulk display order update.
type TagOrder struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"display_order"`
}
