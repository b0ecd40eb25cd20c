package orders

import (
	"strconv"
	"strings"
)

// DefaultSearchKeys is the filter key set the web form exposes. A second
// variant of the form also offered create_time; clients that need it can
// set SearchKeys to include it.
var DefaultSearchKeys = []string{"name", "status", "user_id"}

// value returns the raw filter value for a query key
func (f OrderFilter) value(key string) string {
	switch key {
	case "name":
		return f.Name
	case "create_time":
		return f.CreateTime
	case "status":
		return f.Status
	case "user_id":
		return f.UserID
	}
	return ""
}

// buildQuery composes key=value clauses in the declared key order, omitting
// empty values. Values are inserted verbatim: the API's web form never
// URL-encoded them, and encoding here would change the queries the server
// observes.
func buildQuery(keys []string, filter OrderFilter) string {
	clauses := make([]string, 0, len(keys))
	for _, key := range keys {
		if value := filter.value(key); value != "" {
			clauses = append(clauses, key+"="+value)
		}
	}
	return strings.Join(clauses, "&")
}

// coerceInt parses raw as an integer for a create payload. Non-numeric
// input is forwarded as-is so the server rejects it, mirroring the web
// form's NaN forwarding.
func coerceInt(raw string) interface{} {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	return n
}

// coerceFloat parses raw as a float for a create payload, forwarding
// non-numeric input as-is
func coerceFloat(raw string) interface{} {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return f
}
