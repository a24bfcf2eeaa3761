package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/notemd/notemd/internal/model"
)

// text is a shorthand for a single-span rich-text run.
func text(s string) []model.RichText {
	return []model.RichText{{PlainText: s}}
}

// TestRenderBlocks tests the per-kind block dispatch.
func TestRenderBlocks(t *testing.T) {
	t.Parallel()

	t.Run("headings map to markdown levels", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{
			{Type: model.BlockHeading1, Heading1: &model.TextPayload{RichText: text("One")}},
			{Type: model.BlockHeading2, Heading2: &model.TextPayload{RichText: text("Two")}},
			{Type: model.BlockHeading3, Heading3: &model.TextPayload{RichText: text("Three")}},
		})
		if md != "# One\n## Two\n### Three\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("blank paragraph is preserved as empty line", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{
			{Type: model.BlockParagraph, Paragraph: &model.TextPayload{RichText: text("before")}},
			{Type: model.BlockParagraph, Paragraph: &model.TextPayload{}},
			{Type: model.BlockParagraph, Paragraph: &model.TextPayload{RichText: text("after")}},
		})
		if md != "before\n\nafter\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("quote and callout use blockquote prefix", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{
			{Type: model.BlockQuote, Quote: &model.TextPayload{RichText: text("wise words")}},
			{Type: model.BlockCallout, Callout: &model.CalloutPayload{
				RichText: text("watch out"),
				Icon:     &model.Icon{Type: "emoji", Emoji: "⚠️"},
			}},
		})
		if md != "> wise words\n> ⚠️ watch out\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("list markers", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{
			{Type: model.BlockBulletedListItem, BulletedListItem: &model.TextPayload{RichText: text("a")}},
			{Type: model.BlockNumberedListItem, NumberedListItem: &model.TextPayload{RichText: text("b")}},
			{Type: model.BlockToDo, ToDo: &model.ToDoPayload{RichText: text("c"), Checked: true}},
			{Type: model.BlockToDo, ToDo: &model.ToDoPayload{RichText: text("d")}},
		})
		if md != "- a\n1. b\n- [x] c\n- [ ] d\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("nested list children are indented", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type:             model.BlockBulletedListItem,
			BulletedListItem: &model.TextPayload{RichText: text("parent")},
			HasChildren:      true,
			Children: []model.Block{
				{Type: model.BlockBulletedListItem, BulletedListItem: &model.TextPayload{RichText: text("child")}},
			},
		}})
		if md != "- parent\n  - child\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("toggle renders collapsible details", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type:        model.BlockToggle,
			Toggle:      &model.TextPayload{RichText: text("Summary")},
			HasChildren: true,
			Children: []model.Block{
				{Type: model.BlockParagraph, Paragraph: &model.TextPayload{RichText: text("hidden body")}},
			},
		}})
		want := "<details>\n<summary>Summary</summary>\n\nhidden body\n\n</details>\n"
		if md != want {
			t.Errorf("expected %q, got %q", want, md)
		}
	})

	t.Run("code block is fenced with language", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type: model.BlockCode,
			Code: &model.CodePayload{RichText: text(`fmt.Println("hi")`), Language: "go"},
		}})
		if md != "```go\nfmt.Println(\"hi\")\n```\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("divider renders horizontal rule", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{Type: model.BlockDivider}})
		if md != "---\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("link_to_page renders placeholder entry and collects id", func(t *testing.T) {
		t.Parallel()

		id := model.MustParsePageID("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
		md, linked := RenderBlocks([]model.Block{{
			Type:       model.BlockLinkToPage,
			LinkToPage: &model.LinkToPage{Type: "page_id", PageID: id.String()},
		}})
		if md != "- [Linked page]({PAGE:"+id.String()+"})\n" {
			t.Errorf("unexpected output %q", md)
		}
		if _, ok := linked[id]; !ok {
			t.Errorf("expected %s collected, got %v", id, linked)
		}
	})

	t.Run("link_to_page to database renders label only", func(t *testing.T) {
		t.Parallel()

		md, linked := RenderBlocks([]model.Block{{
			Type:       model.BlockLinkToPage,
			LinkToPage: &model.LinkToPage{Type: "database_id"},
		}})
		if md != "- Linked: database_id\n" {
			t.Errorf("unexpected output %q", md)
		}
		if len(linked) != 0 {
			t.Errorf("expected no links, got %v", linked)
		}
	})

	t.Run("child_page renders titled placeholder entry", func(t *testing.T) {
		t.Parallel()

		id := model.MustParsePageID("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
		md, linked := RenderBlocks([]model.Block{{
			ID:        id.String(),
			Type:      model.BlockChildPage,
			ChildPage: &model.ChildPage{Title: "Child"},
		}})
		if md != "- [Child]({PAGE:"+id.String()+"})\n" {
			t.Errorf("unexpected output %q", md)
		}
		if _, ok := linked[id]; !ok {
			t.Errorf("expected %s collected, got %v", id, linked)
		}
	})

	t.Run("image uses caption as alt text", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type: model.BlockImage,
			Image: &model.FilePayload{
				Type:     "external",
				External: &model.URLRef{URL: "https://example.com/pic.png"},
				Caption:  text("a diagram"),
			},
		}})
		if md != "![a diagram](https://example.com/pic.png)\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("file without caption is labeled by kind", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type: model.BlockPDF,
			PDF: &model.FilePayload{
				Type: "file",
				File: &model.URLRef{URL: "https://files.notion.so/doc.pdf"},
			},
		}})
		if md != "[pdf](https://files.notion.so/doc.pdf)\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("bookmark falls back to URL label", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type:     model.BlockBookmark,
			Bookmark: &model.BookmarkPayload{URL: "https://example.com"},
		}})
		if md != "[https://example.com](https://example.com)\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("table renders four cells row-major", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{{
			Type:        model.BlockTable,
			HasChildren: true,
			Children: []model.Block{
				{Type: model.BlockTableRow, TableRow: &model.TableRowPayload{
					Cells: [][]model.RichText{text("r1c1"), text("r1c2")},
				}},
				{Type: model.BlockTableRow, TableRow: &model.TableRowPayload{
					Cells: [][]model.RichText{text("r2c1"), text("r2c2")},
				}},
			},
		}})

		want := "<table>\n<tr>\n<td>r1c1</td>\n<td>r1c2</td>\n</tr>\n<tr>\n<td>r2c1</td>\n<td>r2c2</td>\n</tr>\n</table>\n"
		if md != want {
			t.Errorf("expected %q, got %q", want, md)
		}

		// Cells must appear in row-major order.
		order := []string{"r1c1", "r1c2", "r2c1", "r2c2"}
		last := -1
		for _, cell := range order {
			idx := strings.Index(md, cell)
			if idx <= last {
				t.Errorf("cell %q out of row-major order", cell)
			}
			last = idx
		}
	})

	t.Run("unknown kind falls back to its rich_text payload", func(t *testing.T) {
		t.Parallel()

		var b model.Block
		raw := []byte(`{
			"id": "x1",
			"type": "template",
			"template": {"rich_text": [{"plain_text": "template text"}]}
		}`)
		if err := json.Unmarshal(raw, &b); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		md, _ := RenderBlocks([]model.Block{b})
		if md != "template text\n" {
			t.Errorf("unexpected output %q", md)
		}
	})

	t.Run("unknown kind without payload renders nothing", func(t *testing.T) {
		t.Parallel()

		var b model.Block
		if err := json.Unmarshal([]byte(`{"id":"x2","type":"breadcrumb","breadcrumb":{}}`), &b); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		md, _ := RenderBlocks([]model.Block{b})
		if md != "\n" {
			t.Errorf("expected empty render, got %q", md)
		}
	})

	t.Run("output has a single trailing newline", func(t *testing.T) {
		t.Parallel()

		md, _ := RenderBlocks([]model.Block{
			{Type: model.BlockParagraph, Paragraph: &model.TextPayload{RichText: text("end")}},
		})
		if !strings.HasSuffix(md, "end\n") || strings.HasSuffix(md, "\n\n") {
			t.Errorf("expected single trailing newline, got %q", md)
		}
	})

	t.Run("child links merge into caller set", func(t *testing.T) {
		t.Parallel()

		id := model.MustParsePageID("cccccccc-cccc-cccc-cccc-cccccccccccc")
		_, linked := RenderBlocks([]model.Block{{
			Type:        model.BlockParagraph,
			Paragraph:   &model.TextPayload{RichText: text("outer")},
			HasChildren: true,
			Children: []model.Block{{
				Type:       model.BlockLinkToPage,
				LinkToPage: &model.LinkToPage{Type: "page_id", PageID: id.String()},
			}},
		}})
		if _, ok := linked[id]; !ok {
			t.Errorf("expected nested link collected, got %v", linked)
		}
	})
}
