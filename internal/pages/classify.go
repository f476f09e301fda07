package pages

import (
	"net/url"
	"strings"

	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/jobscout/careers-crawler/internal/entities"
)

// Thresholds are the classification constants, kept configurable
// rather than baked into control flow. DefaultThresholds carries the
// tuned values.
type Thresholds struct {
	// ListingAnchorsHome is the repeated-anchor count required to call
	// the homepage itself a listing. Home pages carry navigation menus
	// that generate spurious keyword matches, hence the stricter bar.
	ListingAnchorsHome int
	// ListingAnchors is the count required at any deeper page.
	ListingAnchors int
	// ImageMinCount and ImageMaxTextChars reclassify a page as
	// image-based postings: many images, almost no body text.
	ImageMinCount     int
	ImageMaxTextChars int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ListingAnchorsHome: 5,
		ListingAnchors:     3,
		ImageMinCount:      3,
		ImageMaxTextChars:  400,
	}
}

// Classification is the committed result of looking at one page.
// Decided is false for pages the heuristics could not call either way.
type Classification struct {
	PageType entities.PageType
	PostType entities.PostType
	Decided  bool
}

var undecided = Classification{}

// Classify runs the page heuristics in strict order: external board
// redirect, then board-style listing, then inline one-page content.
// The first rule that matches wins. An external link overrides
// everything because a confirmed redirect is authoritative.
func Classify(p *web.Page, depth int, th Thresholds) Classification {

	if HasExternalJobLink(p) {
		return Classification{
			PageType: entities.PageTypeExternal,
			PostType: entities.PostTypeExternalLink,
			Decided:  true,
		}
	}

	body := strings.ToLower(p.BodyText())

	if looksLikeListing(p, body, depth, th) {
		return Classification{
			PageType: entities.PageTypeListing,
			PostType: postTypeFor(p, th),
			Decided:  true,
		}
	}

	if looksLikeOnePage(body) {
		pageType := entities.PageTypeOnePage
		if depth == 0 {
			pageType = entities.PageTypeMain
		}
		return Classification{
			PageType: pageType,
			PostType: postTypeFor(p, th),
			Decided:  true,
		}
	}

	return undecided
}

// HasExternalJobLink reports whether any anchor on the page targets a
// known external job board.
func HasExternalJobLink(p *web.Page) bool {
	return ExternalJobLink(p) != nil
}

// ExternalJobLink returns the first anchor into a known job board, or
// nil. The link itself, not the page carrying it, is the company's
// careers address in that case.
func ExternalJobLink(p *web.Page) *url.URL {
	for _, a := range p.Anchors() {
		if IsExternalJobBoard(a.URL) {
			return a.URL
		}
	}
	return nil
}

// looksLikeListing recognizes a template-driven board: the body talks
// about recruiting, and several posting-looking anchors repeat the
// same normalized path (path minus its last one or two segments), the
// way rows or cards generated from one template do.
func looksLikeListing(p *web.Page, body string, depth int, th Thresholds) bool {
	if !containsAny(body, recruitingKeywords) {
		return false
	}

	pathCounts := make(map[string]int)
	maxCount := 0
	for _, a := range p.Anchors() {
		if !containsAny(strings.ToLower(a.Label()), listingAnchorKeywords) {
			continue
		}
		norm := stripPathSegments(a.URL.Path, 2)
		pathCounts[norm]++
		if pathCounts[norm] > maxCount {
			maxCount = pathCounts[norm]
		}
	}

	if depth == 0 {
		return maxCount >= th.ListingAnchorsHome
	}
	return maxCount >= th.ListingAnchors
}

// looksLikeOnePage recognizes postings embedded in the document
// itself: recruiting vocabulary plus at least one application-process
// phrase.
func looksLikeOnePage(body string) bool {
	return containsAny(body, recruitingKeywords) && containsAny(body, processPhrases)
}

// postTypeFor defaults to text; pages that are mostly images with
// almost no text carry postings the extractor cannot read.
func postTypeFor(p *web.Page, th Thresholds) entities.PostType {
	if p.ImageCount() >= th.ImageMinCount && len([]rune(p.BodyText())) < th.ImageMaxTextChars {
		return entities.PostTypeImage
	}
	return entities.PostTypeText
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// stripPathSegments drops up to n trailing segments from a URL path,
// so /jobs/view/123 and /jobs/view/456 collapse to the same key.
func stripPathSegments(path string, n int) string {
	path = strings.TrimRight(path, "/")
	for i := 0; i < n; i++ {
		idx := strings.LastIndexByte(path, '/')
		if idx <= 0 {
			return ""
		}
		path = path[:idx]
	}
	return path
}
