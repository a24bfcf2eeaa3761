package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/notemd/notemd/internal/model"
)

// writeIndexFile writes the index to path.
func writeIndexFile(path string, exports []*model.PageExport) error {
	f, err := os.Create(path) //nolint:gosec // Path is derived from the user's output directory
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer f.Close()

	if err := WriteIndex(f, exports); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// WriteIndex renders the export index: every exported page as a link to its
// local file, sorted by case-insensitive title. Ties are broken by filename
// so the listing is deterministic.
func WriteIndex(w io.Writer, exports []*model.PageExport) error {
	sorted := make([]*model.PageExport, len(exports))
	copy(sorted, exports)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Title), strings.ToLower(sorted[j].Title)
		if a != b {
			return a < b
		}
		return sorted[i].Filename < sorted[j].Filename
	})

	items := make([]string, 0, len(sorted))
	for _, exp := range sorted {
		items = append(items, markdown.Link(exp.Title, "./"+exp.Filename))
	}

	md := markdown.NewMarkdown(w)
	md.H1("Notion Export Index")
	md.PlainText("")
	md.BulletList(items...)
	return md.Build()
}
