package vectorstore

import "strings"

const maxSanitizedLength = 1000

// sanitizeKeyword defends against SQL injection in keyword_scan's LIKE
// pattern: quotes are doubled, comment markers and semicolons are stripped,
// the LIKE wildcards % and _ are escaped, and the result is capped at 1000
// characters. This sits alongside parameter binding, never in place of it —
// exact-match lookups (e.g. deleting by path) bind the raw value instead,
// since sanitizing it would break equality against the stored row.
func sanitizeKeyword(keyword string) string {
	s := sanitizeCommon(keyword)
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func sanitizeCommon(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, "--", "")
	s = strings.ReplaceAll(s, "/*", "")
	s = strings.ReplaceAll(s, "*/", "")
	s = strings.ReplaceAll(s, ";", "")
	if len(s) > maxSanitizedLength {
		s = s[:maxSanitizedLength]
	}
	return s
}
