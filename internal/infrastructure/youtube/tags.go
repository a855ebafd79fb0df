package youtube

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxTagLength   = 30
	MaxTagsTotal   = 500
	MaxTagCount    = 20
	tagCharsToDrop = "<>,"
)

// SanitizeTags makes tags acceptable to the API: angle brackets and
// commas removed, NFC-normalised, each tag at most 30 characters, at
// most 20 tags and 500 characters counting one separator per tag.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, min(len(tags), MaxTagCount))
	total := 0
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.Map(func(r rune) rune {
			if strings.ContainsRune(tagCharsToDrop, r) {
				return -1
			}
			return r
		}, tag)
		tag = norm.NFC.String(tag)
		if r := []rune(tag); len(r) > MaxTagLength {
			tag = strings.TrimSpace(string(r[:MaxTagLength]))
		}
		if tag == "" {
			continue
		}

		n := len([]rune(tag)) + 1
		if total+n > MaxTagsTotal {
			break
		}
		out = append(out, tag)
		total += n
		if len(out) >= MaxTagCount {
			break
		}
	}
	return out
}
