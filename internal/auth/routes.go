package auth

import "strings"

// RouteClass is the access classification of a request path.
type RouteClass int

const (
	// RouteUnrestricted paths match neither table and pass through untouched.
	RouteUnrestricted RouteClass = iota
	// RoutePublic paths never require a session.
	RoutePublic
	// RouteProtected paths require a valid session.
	RouteProtected
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteProtected:
		return "protected"
	default:
		return "unrestricted"
	}
}

// PathRule matches a path either exactly or by prefix.
type PathRule struct {
	Path   string
	Prefix bool
}

func (r PathRule) matches(path string) bool {
	if r.Prefix {
		return strings.HasPrefix(path, r.Path)
	}
	return path == r.Path
}

// RouteTable is the ordered public/protected classification table.
type RouteTable struct {
	Public    []PathRule
	Protected []PathRule
}

// DefaultRouteTable returns the portal's routing policy.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Public: []PathRule{
			{Path: "/"},
			{Path: "/api/auth/login"},
			{Path: "/api/auth/logout"},
			{Path: "/login", Prefix: true},
		},
		Protected: []PathRule{
			{Path: "/docs", Prefix: true},
			{Path: "/questionnaire", Prefix: true},
			{Path: "/admin", Prefix: true},
		},
	}
}

// Classify returns the class of path. Public rules take precedence over protected ones.
func (t RouteTable) Classify(path string) RouteClass {
	for _, rule := range t.Public {
		if rule.matches(path) {
			return RoutePublic
		}
	}
	for _, rule := range t.Protected {
		if rule.matches(path) {
			return RouteProtected
		}
	}
	return RouteUnrestricted
}
