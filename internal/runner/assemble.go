package runner

import (
	"fmt"
	"html"
	"strings"
	"time"

	"profileforge/internal/section"
)

const profileStyle = `    body { font-family: Georgia, 'Times New Roman', serif; max-width: 960px; margin: 0 auto; padding: 2em; color: #1c1c1c; }
    h1 { border-bottom: 3px solid #1a3e6e; padding-bottom: 0.3em; }
    h2 { color: #1a3e6e; border-bottom: 1px solid #ccc; padding-bottom: 0.2em; margin-top: 2em; }
    table.data-table { border-collapse: collapse; width: 100%; margin: 1em 0; }
    table.data-table th, table.data-table td { border: 1px solid #999; padding: 0.4em 0.6em; text-align: left; }
    table.data-table thead th { background: #1a3e6e; color: #fff; }
    p.error { color: #a40000; font-weight: bold; }
    nav.toc { background: #f4f4f4; padding: 1em 2em; margin: 2em 0; }
    footer { margin-top: 3em; font-size: 0.8em; color: #666; }`

// Assemble concatenates the per-topic fragments into one self-contained
// HTML profile, in catalog order, with a table of contents. Topics without
// a result get an error placeholder so the document is always complete.
func Assemble(company string, topics []section.Topic, results map[int]string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s Company Profile</title>\n", html.EscapeString(company))
	sb.WriteString("<style>\n" + profileStyle + "\n</style>\n</head>\n<body>\n")
	fmt.Fprintf(&sb, "<h1>%s Company Profile</h1>\n", html.EscapeString(company))

	sb.WriteString("<nav class=\"toc\">\n<h3>Contents</h3>\n<ol>\n")
	for _, t := range topics {
		fmt.Fprintf(&sb, "<li><a href=\"#section-%d\">%s</a></li>\n", t.ID, html.EscapeString(t.Title))
	}
	sb.WriteString("</ol>\n</nav>\n")

	for _, t := range topics {
		content, ok := results[t.ID]
		if !ok || strings.TrimSpace(content) == "" {
			content = section.ErrorFragment(t, fmt.Errorf("no result for section %d", t.ID))
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "<footer>Generated on %s</footer>\n", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}
