package web

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Anchor is a link found on a fetched page. URL is absolute, resolved
// against the page's final URL.
type Anchor struct {
	Text      string
	Title     string
	AriaLabel string
	URL       *url.URL
}

// Label is the concatenation of visible text and accessibility labels,
// which is what the classification heuristics match keywords against.
func (a Anchor) Label() string {
	return strings.TrimSpace(a.Text + " " + a.Title + " " + a.AriaLabel)
}

// Block is a heading together with the text of its following siblings,
// up to the next heading.
type Block struct {
	Title string
	Text  string
}

type Page struct {
	URL        *url.URL
	StatusCode int

	doc      *goquery.Document
	anchors  []Anchor
	bodyText string
}

// NewPageFromHTML parses an HTML document fetched from finalURL.
// Script, style and noscript contents are stripped so that body text
// reflects only what a visitor would read.
func NewPageFromHTML(finalURL *url.URL, body io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript").Remove()

	p := &Page{URL: finalURL, doc: doc}
	p.collectAnchors()
	p.collectBodyText()
	return p, nil
}

func (p *Page) collectAnchors() {
	p.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		lower := strings.ToLower(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") {
			return
		}

		target, err := p.URL.Parse(href)
		if err != nil {
			return
		}

		p.anchors = append(p.anchors, Anchor{
			Text:      collapse(sel.Text()),
			Title:     strings.TrimSpace(sel.AttrOr("title", "")),
			AriaLabel: strings.TrimSpace(sel.AttrOr("aria-label", "")),
			URL:       target,
		})
	})
}

func (p *Page) collectBodyText() {
	p.bodyText = collapse(p.doc.Find("body").Text())
}

func (p *Page) Anchors() []Anchor {
	return p.anchors
}

func (p *Page) BodyText() string {
	return p.bodyText
}

// Title returns the first non-empty of <h1>, <h2> and <title>.
func (p *Page) Title() string {
	for _, selector := range []string{"h1", "h2", "title"} {
		if title := collapse(p.doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}

// Blocks splits the page by h2/h3 headings. Each block's text is the
// concatenated text of the heading's following siblings up to the next
// heading. Pages without headings yield no blocks.
func (p *Page) Blocks() []Block {
	var blocks []Block
	p.doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		title := collapse(heading.Text())
		if title == "" {
			return
		}
		text := collapse(heading.NextUntil("h1, h2, h3").Text())
		blocks = append(blocks, Block{Title: title, Text: text})
	})
	return blocks
}

func (p *Page) ImageCount() int {
	return p.doc.Find("img").Length()
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
