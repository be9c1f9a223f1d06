package app

import (
	"regexp"
	"strings"
)

// Span attributes are capped so a bulk upsert does not bloat the trace.
const maxTracedQueryLength = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace collapses whitespace in a SQL statement and caps
// its length before it is attached to a database span.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	query = sqlWhitespace.ReplaceAllString(query, " ")
	if len(query) > maxTracedQueryLength {
		return query[:maxTracedQueryLength] + "..."
	}
	return query
}
