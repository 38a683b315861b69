// Package render formats skills, job results and recommendations for a terminal.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DescriptionLimit is the longest description shown without truncation.
const DescriptionLimit = 100

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateDescription returns the preview text for a description and whether
// it was cut. Length is counted in characters, not bytes.
func TruncateDescription(desc string) (preview string, truncated bool) {
	if utf8.RuneCountInString(desc) <= DescriptionLimit {
		return desc, false
	}
	runes := []rune(desc)
	return string(runes[:DescriptionLimit]) + Ellipsis, true
}

// FragmentText turns a service-provided markup fragment into plain text.
// Markup is never passed through: scripts and styles are dropped, and links
// keep their label followed by the target when it is an http(s) URL.
func FragmentText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpaces(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	doc.Find("script, style, iframe, object").Remove()
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		label := collapseSpaces(a.Text())
		if !isWebURL(href) || href == label {
			return
		}
		if label == "" {
			a.SetText(href)
			return
		}
		a.SetText(fmt.Sprintf("%s <%s>", label, href))
	})

	return collapseSpaces(doc.Find("body").Text())
}

func isWebURL(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wrap breaks text into lines of at most width characters at word boundaries.
// Words longer than width are split.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line []rune
		for _, word := range words {
			w := []rune(word)
			for len(w) > width {
				if len(line) > 0 {
					lines = append(lines, string(line))
					line = nil
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(line) == 0:
				line = w
			case len(line)+1+len(w) <= width:
				line = append(append(line, ' '), w...)
			default:
				lines = append(lines, string(line))
				line = w
			}
		}
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	return lines
}
