package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/middleware"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

func userID(c *gin.Context) string {
	return c.GetString(middleware.ContextKeyUserID)
}

// parseDate 는 YYYY-MM-DD 를 서버 로컬 타임존의 자정으로 해석한다.
func parseDate(name, value string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", services.ErrInvalidInput, name)
	}
	return t, nil
}

func dateRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate("start", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate("end", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// queryDateRange 는 start/end 쿼리를 읽는다. 둘 다 없으면 오늘 하루이다.
func queryDateRange(c *gin.Context) (time.Time, time.Time, error) {
	today := time.Now().Format(time.DateOnly)
	return dateRange(c.DefaultQuery("start", today), c.DefaultQuery("end", today))
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", services.ErrInvalidInput, c.Param("id"))
	}
	return id, nil
}

// queryIDs 는 post_id=1&post_id=2 와 post_id=1,2 를 모두 받는다.
func queryIDs(c *gin.Context, key string) ([]int64, error) {
	var ids []int64
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid %s %q", services.ErrInvalidInput, key, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
