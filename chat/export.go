package chat

import (
	"bytes"
	"fmt"
	"html"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// ExportHTML renders a transcript as a self-contained HTML document for
// sharing or archiving a session. Assistant answers are rendered from
// markdown and sanitized; user questions are escaped verbatim.
func ExportHTML(title string, messages []Message) []byte {
	policy := bluemonday.UGCPolicy()

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&buf, "<h1>%s</h1>\n", html.EscapeString(title))

	for _, msg := range messages {
		fmt.Fprintf(&buf, "<article class=\"message %s\">\n", html.EscapeString(string(msg.Role)))
		fmt.Fprintf(&buf, "<time datetime=\"%s\">%s</time>\n",
			msg.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			msg.Timestamp.Format("2006-01-02 15:04"))

		switch msg.Role {
		case RoleAssistant:
			buf.Write(renderMarkdown(msg.Content, policy))
		default:
			fmt.Fprintf(&buf, "<p>%s</p>\n", html.EscapeString(msg.Content))
		}

		buf.WriteString("</article>\n")
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func renderMarkdown(src string, policy *bluemonday.Policy) []byte {
	// Parser instances are single-use.
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(src))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.Render(doc, renderer)

	return policy.SanitizeBytes(rendered)
}
