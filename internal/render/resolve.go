package render

import (
	"regexp"
	"strings"

	"github.com/notemd/notemd/internal/model"
)

// placeholderPattern matches the unresolved link markers embedded by the
// renderer. The id group is the canonical 36-character form.
var placeholderPattern = regexp.MustCompile(`\{PAGE:([0-9a-f-]{36})\}`)

// ResolveLinks rewrites every link placeholder in already-rendered text.
// When rewrite is true and the id maps to an exported file, the placeholder
// becomes a relative local link; in every other case it becomes the
// notion.so fallback URL. With rewrite false the resolver still runs, so no
// placeholder ever survives into written output.
func ResolveLinks(md string, linkMap map[model.PageID]string, rewrite bool) string {
	return placeholderPattern.ReplaceAllStringFunc(md, func(match string) string {
		raw := match[len("{PAGE:") : len(match)-1]
		id := model.PageID(strings.ToLower(raw))
		if rewrite {
			if filename, ok := linkMap[id]; ok {
				return "./" + filename
			}
		}
		return id.RemoteURL()
	})
}

// HasUnresolvedLinks reports whether text still contains link placeholders.
// Written output must never contain any.
func HasUnresolvedLinks(text string) bool {
	return placeholderPattern.MatchString(text)
}
