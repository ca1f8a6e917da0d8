package persistence

import "strings"

// sortRules whitelists the columns a list endpoint may order by. Anything
// else falls back to the defaults, so caller input never reaches SQL.
type sortRules struct {
	columns       map[string]bool
	defaultColumn string
	defaultDir    string
}

var (
	userSort = sortRules{
		columns: map[string]bool{
			"username":   true,
			"email":      true,
			"first_name": true,
			"last_name":  true,
			"created_at": true,
		},
		defaultColumn: "username",
		defaultDir:    "ASC",
	}
	recipeSort = sortRules{
		columns: map[string]bool{
			"created_at":   true,
			"updated_at":   true,
			"name":         true,
			"cooking_time": true,
		},
		defaultColumn: "created_at",
		defaultDir:    "DESC",
	}
)

// column returns field when it is whitelisted, else the default column
func (s sortRules) column(field string) string {
	if field = strings.TrimSpace(field); s.columns[field] {
		return field
	}
	return s.defaultColumn
}

// direction returns ASC or DESC. Empty input takes the default; anything
// unrecognized is DESC.
func (s sortRules) direction(dir string) string {
	dir = strings.ToUpper(strings.TrimSpace(dir))
	if dir == "" {
		dir = s.defaultDir
	}
	if dir == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// clause builds the ORDER BY clause. The id tiebreaker keeps paging stable
// when the sort column has duplicates.
func (s sortRules) clause(field, dir string) string {
	d := s.direction(dir)
	return s.column(field) + " " + d + ", id " + d
}
