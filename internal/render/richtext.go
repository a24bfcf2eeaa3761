package render

import (
	"strings"

	"github.com/notemd/notemd/internal/model"
)

// Placeholder returns the unresolved link marker for a page id. The marker
// grammar is anchored to the canonical 36-character id, so colliding with
// document text requires the text to contain the marker syntax verbatim.
func Placeholder(id model.PageID) string {
	return "{PAGE:" + id.String() + "}"
}

// RenderRichText converts a rich-text run sequence to inline Markdown.
// Page references found in mentions or hrefs are added to linked.
//
// A span whose href parses as a page id becomes a placeholder link; this
// takes precedence over treating the href as an opaque external URL.
// Style annotations wrap the plain text in a fixed order, outermost to
// innermost: code, bold, italic, strikethrough, underline.
func RenderRichText(spans []model.RichText, linked map[model.PageID]struct{}) string {
	var out strings.Builder

	for _, span := range spans {
		if span.Mention != nil && span.Mention.Type == "page" && span.Mention.Page != nil {
			if id, err := model.ParsePageID(span.Mention.Page.ID); err == nil {
				linked[id] = struct{}{}
			}
		}

		if span.Href != "" {
			if id, err := model.ParsePageID(span.Href); err == nil {
				linked[id] = struct{}{}
				out.WriteString("[" + span.PlainText + "](" + Placeholder(id) + ")")
				continue
			}
			out.WriteString("[" + span.PlainText + "](" + span.Href + ")")
			continue
		}

		out.WriteString(applyAnnotations(span.PlainText, span.Annotations))
	}

	return out.String()
}

// applyAnnotations wraps text per the fixed composition order. Wrapping is
// applied innermost first, so the listed order here is the reverse of the
// outermost-to-innermost order documented on RenderRichText.
func applyAnnotations(text string, a model.Annotations) string {
	if a.Underline {
		// Markdown has no standard underline; use HTML.
		text = "<u>" + text + "</u>"
	}
	if a.Strikethrough {
		text = "~~" + text + "~~"
	}
	if a.Italic {
		text = "*" + text + "*"
	}
	if a.Bold {
		text = "**" + text + "**"
	}
	if a.Code {
		text = "`" + text + "`"
	}
	return text
}

// indentLines prefixes every non-blank line of text with n spaces.
// Blank lines stay blank so paragraph spacing survives nesting.
func indentLines(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
