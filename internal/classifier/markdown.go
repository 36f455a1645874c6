package classifier

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdownLinks parses markdown and returns every link, image,
// and autolink destination. Destinations feed the suspicious-url rules
// so a threat URL hidden behind innocuous link text is still seen.
func extractMarkdownLinks(source []byte) []string {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var links []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			links = append(links, string(node.Destination))
		case *ast.Image:
			links = append(links, string(node.Destination))
		case *ast.AutoLink:
			links = append(links, string(node.URL(source)))
		}
		return ast.WalkContinue, nil
	})
	return links
}
