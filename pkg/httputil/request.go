package httputil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseQueryInt extracts and parses an integer query parameter
func ParseQueryInt(r *http.Request, key string, defaultVal int) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryDate extracts an ISO-8601 (YYYY-MM-DD) date query parameter.
// A missing parameter yields the zero time and no error.
func ParseQueryDate(r *http.Request, key string) (time.Time, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return time.Time{}, nil
	}
	val, err := time.Parse("2006-01-02", str)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date for query param %s: %s", key, str)
	}
	return val, nil
}

// ParseQueryList extracts a comma-separated list query parameter. Empty
// items are dropped; a missing parameter yields nil.
func ParseQueryList(r *http.Request, key string) []string {
	str := r.URL.Query().Get(key)
	if str == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
