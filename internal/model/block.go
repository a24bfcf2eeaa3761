package model

import "encoding/json"

// BlockType is the kind discriminant of a Notion block.
type BlockType string

// Block types the renderer dispatches on. Any other value takes the
// best-effort fallback path.
const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockToggle           BlockType = "toggle"
	BlockCode             BlockType = "code"
	BlockDivider          BlockType = "divider"
	BlockLinkToPage       BlockType = "link_to_page"
	BlockChildPage        BlockType = "child_page"
	BlockImage            BlockType = "image"
	BlockFile             BlockType = "file"
	BlockPDF              BlockType = "pdf"
	BlockVideo            BlockType = "video"
	BlockAudio            BlockType = "audio"
	BlockBookmark         BlockType = "bookmark"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
)

// Block is one node of a Notion page's content tree. The Type field selects
// which payload pointer is populated; all others are nil. Children is empty
// until hydration attaches the fetched subtree.
//
// The raw JSON of the block is retained so the renderer's fallback path can
// probe unknown block kinds for a rich_text payload without the model having
// to enumerate every kind Notion may add.
type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`

	Paragraph        *TextPayload     `json:"paragraph,omitempty"`
	Heading1         *TextPayload     `json:"heading_1,omitempty"`
	Heading2         *TextPayload     `json:"heading_2,omitempty"`
	Heading3         *TextPayload     `json:"heading_3,omitempty"`
	Quote            *TextPayload     `json:"quote,omitempty"`
	Callout          *CalloutPayload  `json:"callout,omitempty"`
	BulletedListItem *TextPayload     `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextPayload     `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoPayload     `json:"to_do,omitempty"`
	Toggle           *TextPayload     `json:"toggle,omitempty"`
	Code             *CodePayload     `json:"code,omitempty"`
	LinkToPage       *LinkToPage      `json:"link_to_page,omitempty"`
	ChildPage        *ChildPage       `json:"child_page,omitempty"`
	Image            *FilePayload     `json:"image,omitempty"`
	File             *FilePayload     `json:"file,omitempty"`
	PDF              *FilePayload     `json:"pdf,omitempty"`
	Video            *FilePayload     `json:"video,omitempty"`
	Audio            *FilePayload     `json:"audio,omitempty"`
	Bookmark         *BookmarkPayload `json:"bookmark,omitempty"`
	TableRow         *TableRowPayload `json:"table_row,omitempty"`

	// Children holds the hydrated child blocks in document order.
	// Populated by the hydrator, never by JSON decoding.
	Children []Block `json:"-"`

	// Raw is the undecoded JSON of the block, kept for the fallback
	// renderer path.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the typed fields and retains the raw bytes.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Block(a)
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// TextPayload is the payload shared by the plain text-bearing block kinds.
type TextPayload struct {
	RichText []RichText `json:"rich_text"`
}

// CalloutPayload is the payload of a callout block.
type CalloutPayload struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

// Icon is a page or callout icon. Only emoji icons are rendered.
type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// ToDoPayload is the payload of a to_do block.
type ToDoPayload struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// CodePayload is the payload of a code block.
type CodePayload struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// LinkToPage is the payload of a link_to_page block. Type is "page_id" for
// page targets; other values (database_id, comment_id) are not crawlable.
type LinkToPage struct {
	Type   string `json:"type"`
	PageID string `json:"page_id,omitempty"`
}

// ChildPage is the payload of a child_page block. The block's own id is the
// id of the sub-page.
type ChildPage struct {
	Title string `json:"title"`
}

// FilePayload is the payload of media blocks (image, file, pdf, video,
// audio). Type selects whether External or File carries the URL.
type FilePayload struct {
	Type     string     `json:"type,omitempty"`
	External *URLRef    `json:"external,omitempty"`
	File     *URLRef    `json:"file,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// URL returns the media URL regardless of hosting type, or "" when absent.
func (f *FilePayload) URL() string {
	switch {
	case f == nil:
		return ""
	case f.Type == "external" && f.External != nil:
		return f.External.URL
	case f.Type == "file" && f.File != nil:
		return f.File.URL
	}
	return ""
}

// URLRef wraps a URL field.
type URLRef struct {
	URL string `json:"url"`
}

// BookmarkPayload is the payload of a bookmark block.
type BookmarkPayload struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

// TableRowPayload is the payload of a table_row block. Each cell is a
// rich-text run; cells are in column order.
type TableRowPayload struct {
	Cells [][]RichText `json:"cells"`
}

// RichText is an atomic styled text run.
type RichText struct {
	Type        string      `json:"type,omitempty"`
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
	Mention     *Mention    `json:"mention,omitempty"`
}

// Annotations is the style flag set of a rich-text run.
type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
	Code          bool `json:"code"`
}

// Mention is an inline reference embedded in rich text. Only page mentions
// contribute to the crawl frontier.
type Mention struct {
	Type string   `json:"type"`
	Page *PageRef `json:"page,omitempty"`
}

// PageRef holds the id of a mentioned page.
type PageRef struct {
	ID string `json:"id"`
}
