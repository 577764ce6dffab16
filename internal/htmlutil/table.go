// Package htmlutil extracts tabular data from parsed HTML pages.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// Tables flattens every <table> in the document into rows of trimmed
// cell text. Tables without rows are skipped.
func Tables(doc *html.Node) [][][]string {
	var tables [][][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if rows := extractRows(n); len(rows) > 0 {
				tables = append(tables, rows)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return tables
}

func extractRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
					cells = append(cells, strings.TrimSpace(Text(child)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(table)

	return rows
}

// Text concatenates all text nodes under n.
func Text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(Text(child))
	}
	return sb.String()
}
