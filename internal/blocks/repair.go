package blocks

import "regexp"

// legacy text fields double-escape \n and escape / and "
var escapeArtifact = regexp.MustCompile(`\\(\\n|"|/)`)

// RepairString undoes the three escaping artifacts of legacy text literals in
// a single pass: \\n becomes \n, \/ becomes / and \" becomes ". Any other
// backslash is left alone.
func RepairString(s string) string {
	return escapeArtifact.ReplaceAllString(s, "$1")
}
