package payload

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Clean normalizes extracted text: carriage returns and control characters
// other than newline and tab are dropped, runs of blank lines collapse to
// one, and the edges are trimmed. Web-grounded agents in particular echo
// scraped content with stray control bytes and padding.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

// HTMLToText converts an HTML document to readable plain text, keeping
// headings, paragraphs, list items, code blocks, and tables. The second
// return value reports whether the input was recognized as HTML at all;
// plain text passes through untouched with ok == false.
func HTMLToText(s string) (string, bool) {
	if !looksLikeHTML(s) {
		return s, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s, false
	}
	var out []string
	doc.Find("h1,h2,h3,h4,p,li,pre,code,table").Each(func(i int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "h1":
			out = append(out, "# "+strings.TrimSpace(sel.Text()))
		case "h2":
			out = append(out, "## "+strings.TrimSpace(sel.Text()))
		case "h3":
			out = append(out, "### "+strings.TrimSpace(sel.Text()))
		case "h4":
			out = append(out, "#### "+strings.TrimSpace(sel.Text()))
		case "p":
			out = append(out, strings.TrimSpace(sel.Text()))
		case "li":
			out = append(out, "- "+strings.TrimSpace(sel.Text()))
		case "pre", "code":
			out = append(out, "```\n"+strings.TrimSpace(sel.Text())+"\n```")
		case "table":
			out = append(out, parseTable(sel))
		}
	})
	if len(out) == 0 {
		// Markup with no recognized content blocks; fall back to bare text.
		return strings.TrimSpace(doc.Text()), true
	}
	return strings.Join(out, "\n\n"), true
}

func looksLikeHTML(s string) bool {
	probe := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(probe, "<!doctype html") ||
		strings.HasPrefix(probe, "<html") ||
		strings.Contains(probe, "<body")
}

func parseTable(sel *goquery.Selection) string {
	var rows []string
	sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
		var cols []string
		tr.Find("th,td").Each(func(j int, td *goquery.Selection) {
			cols = append(cols, strings.TrimSpace(td.Text()))
		})
		if len(cols) > 0 {
			rows = append(rows, "| "+strings.Join(cols, " | ")+" |")
		}
	})
	return strings.Join(rows, "\n")
}
