package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursenotes-backend/internal/http/middleware"
)

// flexID accepts a numeric id sent either as a JSON number or a string.
type flexID int64

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	v, err := parseID(s)
	if err != nil {
		return err
	}
	*id = flexID(v)
	return nil
}

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return v, nil
}

// parseIDList parses "1,2,3". Blank entries are skipped; order is kept.
func parseIDList(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := parseID(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func flexIDs(in []flexID) []int64 {
	out := make([]int64, 0, len(in))
	for _, id := range in {
		if id > 0 {
			out = append(out, int64(id))
		}
	}
	return out
}

func credentialFrom(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(middleware.HeaderUdemyCookie))
}
