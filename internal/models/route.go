package models

import "strings"

// Route represents an endpoint of the service under test
type Route struct {
	Method  string
	Path    string // path template, e.g. /api/products/{id}
	Purpose string
}

// Matches reports whether a request with method and concrete path was sent
// to this route. A "{...}" template segment matches any single segment.
func (r Route) Matches(method, path string) bool {
	if !strings.EqualFold(r.Method, method) {
		return false
	}
	want := strings.Split(strings.Trim(r.Path, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
