package bind

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter, def when absent or unparseable
func QueryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// QueryBool reads a flag query parameter.
// "1"/"true" are true, "0"/"false" are false, anything else is def
func QueryBool(r *http.Request, name string, def bool) bool {
	raw := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(name)))
	switch raw {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	return def
}

// QueryString reads a string query parameter, def when absent
func QueryString(r *http.Request, name, def string) string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	return raw
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
