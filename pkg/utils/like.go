package utils

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE/ILIKE pattern matching s literally anywhere
// in the column. Postgres treats backslash as the default LIKE escape.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
