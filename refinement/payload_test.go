package refinement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

func TestBuildRequestPayload(t *testing.T) {
	got, err := BuildRequestPayload([]models.Post{
		{ID: 1, Title: "朝", Content: "散歩 <公園>", Tags: nil},
		{ID: 2, Title: "夜", Content: "読書", Tags: []string{"book"}},
	})
	require.NoError(t, err)

	want := `{
  "request_memo": [
    {
      "id": 1,
      "tags": [],
      "title": "朝",
      "text": "散歩 <公園>"
    },
    {
      "id": 2,
      "tags": [
        "book"
      ],
      "title": "夜",
      "text": "読書"
    }
  ]
}`
	assert.Equal(t, want, got)
}

func TestRenderPrompt(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "both placeholders",
			template: "memo:{{memo}} tags:{{tags}}",
			want:     "memo:M tags:T",
		},
		{
			name:     "memo placeholder missing",
			template: "tags:{{tags}}",
			want:     "tags:T\n\nM",
		},
		{
			name:     "no placeholders",
			template: "instructions",
			want:     "instructions\n\nM\n\nT",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, RenderPrompt(testCase.template, "M", "T"))
		})
	}
}

func TestRenderPromptDoesNotRescanPayload(t *testing.T) {
	got := RenderPrompt("{{memo}}|{{tags}}", `{"text":"literal {{tags}}"}`, "T")
	assert.Equal(t, `{"text":"literal {{tags}}"}|T`, got)
}

func TestParseResponse(t *testing.T) {
	doc := `{"refinement_results":[{"id":3,"original_text":"o","fixed_title":"t","fixed_text":"x","fixed_tags":["a"],"changes":["c"]}]}`

	testCases := []struct {
		name string
		text string
	}{
		{name: "plain", text: doc},
		{name: "json fence", text: "```json\n" + doc + "\n```"},
		{name: "bare fence with spaces", text: "  ```\n" + doc + "\n```  "},
		{name: "fence on one line", text: "```json " + doc + "```"},
		{name: "fence after prose", text: "修正結果です。\n```json\n" + doc + "\n```\n以上です。"},
		{name: "unfenced with prose", text: "Here is the result: " + doc + " Done."},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			results, err := ParseResponse(testCase.text)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, int64(3), results[0].ID)
			assert.Equal(t, []string{"a"}, results[0].FixedTags)
			assert.Equal(t, []string{"c"}, results[0].Changes)
		})
	}
}

func TestParseResponseFailures(t *testing.T) {
	for name, text := range map[string]string{
		"empty":         "",
		"not json":      "申し訳ありません、処理できませんでした。",
		"missing key":   `{"results":[]}`,
		"null results":  `{"refinement_results":null}`,
		"truncated doc": "```json\n{\"refinement_results\":[{\"id\":1\n```",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse(text)
			assert.ErrorIs(t, err, ErrParseResponse)
		})
	}
}

func TestParseResponseEmptyList(t *testing.T) {
	results, err := ParseResponse(`{"refinement_results":[]}`)
	require.NoError(t, err)
	assert.Empty(t, results)
}
