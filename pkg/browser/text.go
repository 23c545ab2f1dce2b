package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// visibleText parses rawHTML and returns the text a user would see:
// script, style, and similar non-rendered subtrees are dropped, block
// element boundaries become line breaks, and whitespace runs inside a
// line collapse to single spaces. Output longer than maxLen is cut at
// the limit with a marker; maxLen <= 0 disables truncation.
func visibleText(rawHTML string, maxLen int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var c textCollector
	c.walk(doc)
	c.flush()

	text := strings.Join(c.lines, "\n")
	if maxLen > 0 && len(text) > maxLen {
		text = text[:maxLen] + fmt.Sprintf("\n[truncated at %d characters]", maxLen)
	}
	return text, nil
}

// textCollector accumulates rendered text, starting a new line at each
// block element boundary.
type textCollector struct {
	lines   []string
	current strings.Builder
}

// flush normalizes the pending inline text and commits it as one line.
// Whitespace-only lines are dropped.
func (c *textCollector) flush() {
	line := strings.Join(strings.Fields(c.current.String()), " ")
	c.current.Reset()
	if line != "" {
		c.lines = append(c.lines, line)
	}
}

func (c *textCollector) walk(n *html.Node) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isHiddenElement(strings.ToLower(n.Data)) {
		return
	}

	if n.Type == html.TextNode {
		c.current.WriteString(n.Data)
		return
	}

	block := n.Type == html.ElementNode && isBlockElement(strings.ToLower(n.Data))
	if block {
		c.flush()
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}

	if block {
		c.flush()
	}
}

// isHiddenElement reports subtrees that never render text.
func isHiddenElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template", "head", "iframe", "object", "embed", "svg":
		return true
	}
	return false
}

// isBlockElement reports elements whose boundary breaks the rendered line.
func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "br", "div", "dl", "dd", "dt",
		"fieldset", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hr", "li", "main", "nav", "ol", "p", "pre", "section", "table",
		"tr", "td", "th", "ul":
		return true
	}
	return false
}
