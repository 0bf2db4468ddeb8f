package catalog

import (
	"regexp"
	"strings"
)

// ddlHeaderLines is the number of comment lines the catalog's definition
// generator puts before the statement.
const ddlHeaderLines = 4

var lineBreak = regexp.MustCompile(`\r?\n`)

// NormalizeDDL drops the generator header and surrounding whitespace. Blank
// input yields "".
func NormalizeDDL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	lines := lineBreak.Split(raw, -1)
	if len(lines) <= ddlHeaderLines {
		return ""
	}

	return strings.TrimSpace(strings.Join(lines[ddlHeaderLines:], "\n"))
}
