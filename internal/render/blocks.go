package render

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/notemd/notemd/internal/model"
)

// RenderBlocks converts a hydrated block sequence to Markdown and returns
// the rendered text together with the set of page ids it references.
// Cross-page links are emitted in placeholder form; see ResolveLinks.
// The output carries exactly one trailing newline.
func RenderBlocks(blocks []model.Block) (string, map[model.PageID]struct{}) {
	linked := make(map[model.PageID]struct{})
	return renderBlocks(blocks, linked), linked
}

// renderBlocks renders one level of the tree. Nested children are rendered
// recursively; their referenced ids accumulate into the shared linked set.
func renderBlocks(blocks []model.Block, linked map[model.PageID]struct{}) string {
	var lines []string

	for i := range blocks {
		b := &blocks[i]

		switch b.Type {
		case model.BlockParagraph:
			text := RenderRichText(textOf(b), linked)
			if strings.TrimSpace(text) != "" {
				lines = append(lines, text)
			} else {
				// Preserve blank paragraphs as empty lines to keep
				// the page's visual spacing.
				lines = append(lines, "")
			}
			lines = appendChildren(lines, b, linked)

		case model.BlockHeading1, model.BlockHeading2, model.BlockHeading3:
			text := RenderRichText(textOf(b), linked)
			lines = append(lines, strings.TrimRight(headingPrefix(b.Type)+" "+text, " "))
			lines = appendChildren(lines, b, linked)

		case model.BlockQuote:
			text := RenderRichText(textOf(b), linked)
			lines = append(lines, strings.TrimRight("> "+text, " "))
			lines = appendChildren(lines, b, linked)

		case model.BlockCallout:
			text := RenderRichText(textOf(b), linked)
			icon := ""
			if b.Callout != nil && b.Callout.Icon != nil && b.Callout.Icon.Type == "emoji" && b.Callout.Icon.Emoji != "" {
				icon = b.Callout.Icon.Emoji + " "
			}
			lines = append(lines, strings.TrimRight("> "+icon+text, " "))
			lines = appendChildren(lines, b, linked)

		case model.BlockBulletedListItem, model.BlockNumberedListItem, model.BlockToDo:
			text := RenderRichText(textOf(b), linked)
			lines = append(lines, strings.TrimRight(listMarker(b)+" "+text, " "))
			if child := renderChildren(b, linked); child != "" {
				lines = append(lines, indentLines(child, 2))
			}

		case model.BlockToggle:
			// HTML details/summary gives real expand/collapse semantics
			// in most Markdown renderers.
			text := RenderRichText(textOf(b), linked)
			lines = append(lines, "<details>", "<summary>"+text+"</summary>")
			if child := renderChildren(b, linked); child != "" {
				lines = append(lines, "", child, "")
			}
			lines = append(lines, "</details>")

		case model.BlockCode:
			var text, lang string
			if b.Code != nil {
				text = RenderRichText(b.Code.RichText, linked)
				lang = b.Code.Language
			}
			lines = append(lines, strings.TrimRight("```"+lang, " "), text, "```")
			lines = appendChildren(lines, b, linked)

		case model.BlockDivider:
			lines = append(lines, "---")

		case model.BlockLinkToPage:
			lines = renderLinkToPage(lines, b, linked)

		case model.BlockChildPage:
			// A sub-page block: both a forward link and a visible entry.
			if id, err := model.ParsePageID(b.ID); err == nil {
				linked[id] = struct{}{}
				title := "Subpage"
				if b.ChildPage != nil && b.ChildPage.Title != "" {
					title = b.ChildPage.Title
				}
				lines = append(lines, "- ["+title+"]("+Placeholder(id)+")")
			}

		case model.BlockImage, model.BlockFile, model.BlockPDF, model.BlockVideo, model.BlockAudio:
			lines = renderMedia(lines, b, linked)

		case model.BlockBookmark:
			lines = renderBookmark(lines, b, linked)

		case model.BlockTable:
			lines = renderTable(lines, b, linked)

		case model.BlockTableRow:
			// Rows are rendered by their parent table; a stray row
			// outside a table renders nothing.

		default:
			lines = renderFallback(lines, b, linked)
		}
	}

	out := strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
	return out + "\n"
}

// headingPrefix maps a heading kind to its marker.
func headingPrefix(t model.BlockType) string {
	switch t {
	case model.BlockHeading1:
		return "#"
	case model.BlockHeading2:
		return "##"
	default:
		return "###"
	}
}

// listMarker returns the line prefix for a list-item kind.
func listMarker(b *model.Block) string {
	switch b.Type {
	case model.BlockNumberedListItem:
		return "1."
	case model.BlockToDo:
		if b.ToDo != nil && b.ToDo.Checked {
			return "- [x]"
		}
		return "- [ ]"
	default:
		return "-"
	}
}

// textOf returns the rich-text runs of a text-bearing block kind.
func textOf(b *model.Block) []model.RichText {
	switch b.Type {
	case model.BlockParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.RichText
		}
	case model.BlockHeading1:
		if b.Heading1 != nil {
			return b.Heading1.RichText
		}
	case model.BlockHeading2:
		if b.Heading2 != nil {
			return b.Heading2.RichText
		}
	case model.BlockHeading3:
		if b.Heading3 != nil {
			return b.Heading3.RichText
		}
	case model.BlockQuote:
		if b.Quote != nil {
			return b.Quote.RichText
		}
	case model.BlockCallout:
		if b.Callout != nil {
			return b.Callout.RichText
		}
	case model.BlockBulletedListItem:
		if b.BulletedListItem != nil {
			return b.BulletedListItem.RichText
		}
	case model.BlockNumberedListItem:
		if b.NumberedListItem != nil {
			return b.NumberedListItem.RichText
		}
	case model.BlockToDo:
		if b.ToDo != nil {
			return b.ToDo.RichText
		}
	case model.BlockToggle:
		if b.Toggle != nil {
			return b.Toggle.RichText
		}
	}
	return nil
}

// renderChildren renders a block's hydrated children, returning "" when
// there is nothing visible.
func renderChildren(b *model.Block, linked map[model.PageID]struct{}) string {
	if len(b.Children) == 0 {
		return ""
	}
	child := renderBlocks(b.Children, linked)
	if strings.TrimSpace(child) == "" {
		return ""
	}
	// The recursive call ends with a trailing newline; drop it so embedding
	// and indentation do not accumulate blank lines.
	return strings.TrimRight(child, "\n")
}

// appendChildren appends a block's rendered children as trailing content.
func appendChildren(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	if child := renderChildren(b, linked); child != "" {
		lines = append(lines, child)
	}
	return lines
}

// renderLinkToPage renders a link_to_page block as a placeholder list entry.
func renderLinkToPage(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	if b.LinkToPage == nil {
		return lines
	}
	if b.LinkToPage.Type == "page_id" && b.LinkToPage.PageID != "" {
		if id, err := model.ParsePageID(b.LinkToPage.PageID); err == nil {
			linked[id] = struct{}{}
			return append(lines, "- [Linked page]("+Placeholder(id)+")")
		}
	}
	// database_id and friends are not crawlable targets.
	return append(lines, "- Linked: "+b.LinkToPage.Type)
}

// renderMedia renders image/file/pdf/video/audio blocks. Notion-hosted
// URLs are time-limited; they are embedded as returned.
func renderMedia(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	payload := mediaPayload(b)
	if payload == nil {
		return lines
	}

	caption := RenderRichText(payload.Caption, linked)
	url := payload.URL()
	if url == "" {
		return lines
	}

	if b.Type == model.BlockImage {
		alt := strings.TrimSpace(caption)
		if alt == "" {
			alt = "image"
		}
		return append(lines, "!["+alt+"]("+url+")")
	}

	label := strings.TrimSpace(caption)
	if label == "" {
		label = string(b.Type)
	}
	return append(lines, "["+label+"]("+url+")")
}

// mediaPayload returns the payload pointer matching the media kind.
func mediaPayload(b *model.Block) *model.FilePayload {
	switch b.Type {
	case model.BlockImage:
		return b.Image
	case model.BlockFile:
		return b.File
	case model.BlockPDF:
		return b.PDF
	case model.BlockVideo:
		return b.Video
	case model.BlockAudio:
		return b.Audio
	}
	return nil
}

// renderBookmark renders a bookmark block as a labeled link.
func renderBookmark(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	if b.Bookmark == nil || b.Bookmark.URL == "" {
		return lines
	}
	label := strings.TrimSpace(RenderRichText(b.Bookmark.Caption, linked))
	if label == "" {
		label = b.Bookmark.URL
	}
	return append(lines, "["+label+"]("+b.Bookmark.URL+")")
}

// renderTable renders a table block as an explicit HTML grid. Block-level
// line markup cannot express a grid, so cells are emitted row-major as
// <td> entries with individually rendered rich text.
func renderTable(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	lines = append(lines, "<table>")
	for i := range b.Children {
		row := &b.Children[i]
		if row.Type != model.BlockTableRow || row.TableRow == nil {
			continue
		}
		lines = append(lines, "<tr>")
		for _, cell := range row.TableRow.Cells {
			lines = append(lines, "<td>"+RenderRichText(cell, linked)+"</td>")
		}
		lines = append(lines, "</tr>")
	}
	return append(lines, "</table>")
}

// renderFallback handles unrecognized block kinds: probe the raw JSON for a
// rich_text payload under the kind's own field and render it when present.
// Nothing is rendered when no payload is found; the failure is never fatal.
func renderFallback(lines []string, b *model.Block, linked map[model.PageID]struct{}) []string {
	if b.Type != "" && len(b.Raw) > 0 {
		res := gjson.GetBytes(b.Raw, string(b.Type)+".rich_text")
		if res.Exists() {
			var spans []model.RichText
			if err := json.Unmarshal([]byte(res.Raw), &spans); err == nil {
				if text := RenderRichText(spans, linked); strings.TrimSpace(text) != "" {
					lines = append(lines, text)
				}
			}
		}
	}
	return appendChildren(lines, b, linked)
}
