package models

import "time"

// PromptTemplate groups the versions of one prompt slug.
// Collection: prompt_templates
type PromptTemplate struct {
	ID          int64     `bson:"_id" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type ModelConfig struct {
	Model       string  `bson:"model" json:"model"`
	Temperature float64 `bson:"temperature" json:"temperature"`
}

// PromptVersion is one saved revision of a prompt template.
// Collection: prompt_versions
type PromptVersion struct {
	ID          int64       `bson:"_id" json:"id"`
	TemplateID  int64       `bson:"template_id" json:"template_id"`
	Slug        string      `bson:"slug" json:"slug"`
	Version     int         `bson:"version" json:"version"`
	Content     string      `bson:"content" json:"content"`
	Comment     string      `bson:"comment" json:"comment"`
	ModelConfig ModelConfig `bson:"model_config" json:"model_config"`
	IsActive    bool        `bson:"is_active" json:"is_active"`
	CreatedBy   string      `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
}
