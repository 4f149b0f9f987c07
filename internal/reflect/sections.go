package reflect

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one markdown heading in the memory document and the byte
// offset where its heading line starts.
type Section struct {
	Title  string
	Level  int
	Offset int
}

// DocumentSections extracts the headings of a markdown document in order.
func DocumentSections(doc string) []Section {
	source := []byte(doc)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var sections []Section
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var title strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				title.Write(t.Segment.Value(source))
			}
		}

		offset := 0
		if heading.Lines().Len() > 0 {
			offset = heading.Lines().At(0).Start
		}
		sections = append(sections, Section{
			Title:  strings.TrimSpace(title.String()),
			Level:  heading.Level,
			Offset: offset,
		})
		return ast.WalkSkipChildren, nil
	})
	return sections
}

// SectionFor resolves the heading that encloses the first occurrence of
// anchor in doc. It returns empty when the anchor is missing or precedes
// every heading.
func SectionFor(doc, anchor string) string {
	idx := strings.Index(doc, anchor)
	if idx < 0 {
		return ""
	}
	title := ""
	for _, s := range DocumentSections(doc) {
		if s.Offset > idx {
			break
		}
		title = s.Title
	}
	return title
}
