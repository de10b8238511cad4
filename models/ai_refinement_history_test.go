package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTags(t *testing.T) {
	assert.Equal(t, "[]", EncodeTags(nil))
	assert.Equal(t, "[]", EncodeTags([]string{}))
	assert.Equal(t, `["life","work"]`, EncodeTags([]string{"life", "work"}))
}

func TestIsEditedBy(t *testing.T) {
	h := AIRefinementHistory{
		AfterTitle: "朝の散歩",
		AfterText:  "公園を歩いた。",
		AfterTags:  EncodeTags([]string{"life"}),
	}

	testCases := []struct {
		name    string
		content AppliedContent
		want    bool
	}{
		{
			name:    "unchanged",
			content: AppliedContent{Title: "朝の散歩", Text: "公園を歩いた。", Tags: []string{"life"}},
			want:    false,
		},
		{
			name:    "one character changed in text",
			content: AppliedContent{Title: "朝の散歩", Text: "公園を歩いた!", Tags: []string{"life"}},
			want:    true,
		},
		{
			name:    "title changed",
			content: AppliedContent{Title: "夜の散歩", Text: "公園を歩いた。", Tags: []string{"life"}},
			want:    true,
		},
		{
			name:    "tags reordered",
			content: AppliedContent{Title: "朝の散歩", Text: "公園を歩いた。", Tags: []string{"life", "walk"}},
			want:    true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, h.IsEditedBy(testCase.content))
		})
	}
}

func TestPostUpdateFields(t *testing.T) {
	title := "t"
	public := false
	var nilTags []string
	u := PostUpdate{Title: &title, PublicFlg: &public, Tags: &nilTags}

	fields := u.Fields()
	assert.Equal(t, "t", fields["title"])
	assert.Equal(t, false, fields["public_flg"])
	assert.Equal(t, []string{}, fields["tags"])
	assert.NotContains(t, fields, "content")
	assert.False(t, u.IsEmpty())
	assert.True(t, PostUpdate{}.IsEmpty())
}
