package wiki

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes HTML markup from a fragment, returning visible text
func StripTags(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// ParseDisambiguation extracts the candidate page titles a
// disambiguation page refers to, in page order. Candidates are the
// first linked title of each list item, skipping table-of-contents
// entries.
func ParseDisambiguation(fragment string) []string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var options []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			if !strings.Contains(attr(n, "class"), "tocsection") {
				if title := firstLinkText(n); title != "" && !seen[title] {
					seen[title] = true
					options = append(options, title)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return options
}

// firstLinkText returns the text of the first anchor under n
func firstLinkText(n *html.Node) string {
	var anchor *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if anchor != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			anchor = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)

	if anchor == nil {
		return ""
	}

	var buf strings.Builder
	var text func(*html.Node)
	text = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			text(c)
		}
	}
	text(anchor)

	return strings.TrimSpace(buf.String())
}

// attr returns the value of the named attribute, or ""
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
