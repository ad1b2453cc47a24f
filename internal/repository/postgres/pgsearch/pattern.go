// Package pgsearch builds LIKE patterns from user-typed search terms.
package pgsearch

import "strings"

// Postgres uses backslash as the default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a pattern matching values that contain term literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
