package filename

import "strings"

// reserved are the characters stripped from titles before they become file names.
const reserved = `<>:"/\|?*`

// Sanitize removes reserved path characters and trims surrounding whitespace.
// Everything else, including repeated spaces and punctuation, is kept as is.
func Sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(reserved, r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
