package dto

import "time"

type CreatePostRequestDTO struct {
	CurrentAt        time.Time `json:"current_at" example:"2026-03-05T09:00:00+09:00"`
	Title            string    `json:"title" example:"朝の散歩"`
	Content          string    `json:"content" example:"公園を歩いた。"`
	Tags             []string  `json:"tags"`
	Second           int       `json:"second" example:"30"`
	PublicFlg        bool      `json:"public_flg"`
	PublicContentFlg bool      `json:"public_content_flg"`
}

// UpdatePostRequestDTO 는 부분 업데이트이다. 생략된 필드는 바뀌지 않는다.
type UpdatePostRequestDTO struct {
	Title            *string   `json:"title,omitempty"`
	Content          *string   `json:"content,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
	Second           *int      `json:"second,omitempty"`
	PublicFlg        *bool     `json:"public_flg,omitempty"`
	PublicContentFlg *bool     `json:"public_content_flg,omitempty"`
	DeleteFlg        *bool     `json:"delete_flg,omitempty"`
}
