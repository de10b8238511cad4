package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
)

const maxCell = 40

func parseDay(name, value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

// truncate 는 표 셀이 너무 길어지지 않도록 rune 단위로 자른다.
func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= maxCell {
		return s
	}
	return string(r[:maxCell-1]) + "…"
}

func buildBatchRows(batches []models.AIBatch) [][]string {
	rows := make([][]string, 0, len(batches))
	for _, b := range batches {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			string(b.Status),
			fmt.Sprintf("%d/%d", b.CompletedChunks, b.TotalChunks),
			strconv.Itoa(b.TotalMemos),
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func buildResultRows(results []refinement.RefinementResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			truncate(r.FixedTitle),
			truncate(r.FixedText),
			strconv.Itoa(len(r.Changes)),
		})
	}
	return rows
}

// eventLine 은 구독한 이벤트 하나를 한 줄로 요약한다.
func eventLine(evt eventbus.Event) string {
	line := fmt.Sprintf("%s %-28s id=%s", evt.OccurredAt.Local().Format(time.DateTime), evt.Type, evt.ID)
	payload, err := eventbus.DecodeJSON[struct {
		BatchID int64  `json:"batch_id"`
		UserID  string `json:"user_id"`
	}](evt)
	if err != nil {
		return line
	}
	if payload.BatchID != 0 {
		line += fmt.Sprintf(" batch=%d", payload.BatchID)
	}
	if payload.UserID != "" {
		line += " user=" + payload.UserID
	}
	return line
}
