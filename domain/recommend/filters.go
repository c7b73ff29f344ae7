package recommend

import (
	"encoding/base64"
	"sort"
	"strings"
)

// Filters narrows ranking candidates and scopes recommendation cache keys.
// Zero-value fields are ignored.
type Filters struct {
	// Category requires an exact category match.
	Category string

	// CoursesProvider requires an exact course provider match.
	CoursesProvider string

	// CertificationsIssuer requires an exact certification issuer match.
	CertificationsIssuer string

	// Ability is a free-text skill filter; candidates below the similarity
	// threshold against its embedding are dropped.
	Ability string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Category == "" && f.CoursesProvider == "" && f.CertificationsIssuer == "" && f.Ability == ""
}

// Hash returns a stable base64 encoding of the sorted non-empty filter
// key=value pairs, or "" when no filter is set. Used as a cache key
// component so that filtered and unfiltered calls never collide.
func (f Filters) Hash() string {
	pairs := make([]string, 0, 4)
	if f.Category != "" {
		pairs = append(pairs, "category="+f.Category)
	}
	if f.CoursesProvider != "" {
		pairs = append(pairs, "coursesProvider="+f.CoursesProvider)
	}
	if f.CertificationsIssuer != "" {
		pairs = append(pairs, "certificationsIssuer="+f.CertificationsIssuer)
	}
	if f.Ability != "" {
		pairs = append(pairs, "ability="+f.Ability)
	}
	if len(pairs) == 0 {
		return ""
	}
	sort.Strings(pairs)
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(pairs, "&")))
}
