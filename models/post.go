package models

import (
	"time"
)

// Post is one journal memo.
// Collection: posts
type Post struct {
	ID     int64  `bson:"_id" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`
	// CurrentAt 는 메모가 속한 날짜(작성 시각과 별개)이다.
	CurrentAt        time.Time `bson:"current_at" json:"current_at"`
	Title            string    `bson:"title" json:"title"`
	Content          string    `bson:"content" json:"content"`
	Tags             []string  `bson:"tags" json:"tags"`
	Second           int       `bson:"second" json:"second"`
	PublicFlg        bool      `bson:"public_flg" json:"public_flg"`
	PublicContentFlg bool      `bson:"public_content_flg" json:"public_content_flg"`
	DeleteFlg        bool      `bson:"delete_flg" json:"delete_flg"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// PostUpdate carries a partial post update. Nil fields are left untouched.
type PostUpdate struct {
	Title            *string
	Content          *string
	Tags             *[]string
	Second           *int
	PublicFlg        *bool
	PublicContentFlg *bool
	DeleteFlg        *bool
}

// IsEmpty reports whether the update touches no field.
func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil && u.Second == nil &&
		u.PublicFlg == nil && u.PublicContentFlg == nil && u.DeleteFlg == nil
}

// Fields returns the bson field names and values of the non-nil members.
func (u PostUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Content != nil {
		fields["content"] = *u.Content
	}
	if u.Tags != nil {
		tags := *u.Tags
		if tags == nil {
			tags = []string{}
		}
		fields["tags"] = tags
	}
	if u.Second != nil {
		fields["second"] = *u.Second
	}
	if u.PublicFlg != nil {
		fields["public_flg"] = *u.PublicFlg
	}
	if u.PublicContentFlg != nil {
		fields["public_content_flg"] = *u.PublicContentFlg
	}
	if u.DeleteFlg != nil {
		fields["delete_flg"] = *u.DeleteFlg
	}
	return fields
}

// DailySummary aggregates one day of posts.
type DailySummary struct {
	Date         string `json:"date"`
	PostCount    int    `json:"post_count"`
	TotalSeconds int    `json:"total_seconds"`
	TotalChars   int    `json:"total_chars"`
}
