package refinement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

const (
	MemoPlaceholder = "{{memo}}"
	TagsPlaceholder = "{{tags}}"
)

type requestMemo struct {
	ID    int64    `json:"id"`
	Tags  []string `json:"tags"`
	Title string   `json:"title"`
	Text  string   `json:"text"`
}

// BuildRequestPayload serializes a chunk as {"request_memo": [...]}.
func BuildRequestPayload(posts []models.Post) (string, error) {
	memos := make([]requestMemo, 0, len(posts))
	for _, p := range posts {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		memos = append(memos, requestMemo{ID: p.ID, Tags: tags, Title: p.Title, Text: p.Content})
	}
	return marshalIndent(struct {
		RequestMemo []requestMemo `json:"request_memo"`
	}{memos})
}

// RenderPrompt substitutes the payload and tag snapshot into the template.
// A placeholder missing from the template gets its value appended instead.
func RenderPrompt(template, requestJSON, tagSnapshot string) string {
	hasMemo := strings.Contains(template, MemoPlaceholder)
	hasTags := strings.Contains(template, TagsPlaceholder)

	// 한 번에 치환해야 메모 본문 안의 "{{tags}}" 가 다시 치환되지 않는다.
	prompt := strings.NewReplacer(MemoPlaceholder, requestJSON, TagsPlaceholder, tagSnapshot).Replace(template)
	if !hasMemo {
		prompt += "\n\n" + requestJSON
	}
	if !hasTags {
		prompt += "\n\n" + tagSnapshot
	}
	return prompt
}

// ParseResponse extracts refinement_results from the model text, tolerating a
// code fence or surrounding prose.
func ParseResponse(text string) ([]RefinementResult, error) {
	cleaned := extractDocument(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrParseResponse)
	}
	var resp Response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseResponse, err)
	}
	if resp.RefinementResults == nil {
		return nil, fmt.Errorf("%w: refinement_results missing", ErrParseResponse)
	}
	return resp.RefinementResults, nil
}

// extractDocument returns the JSON document of a model reply. A ``` fence may
// carry a language tag and may follow or precede prose; without a fence the
// outermost {...} span is used when the reply does not start with '{'.
func extractDocument(content string) string {
	text := strings.TrimSpace(content)
	if open := strings.Index(text, "```"); open >= 0 {
		body := strings.TrimLeft(text[open+3:], " \t")
		if tagEnd := strings.IndexFunc(body, func(r rune) bool { return !unicode.IsLetter(r) }); tagEnd > 0 {
			body = body[tagEnd:]
		}
		if end := strings.LastIndex(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	if text == "" || text[0] == '{' {
		return text
	}
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	return text
}

// marshalIndent writes two-space indented JSON without HTML escaping.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
