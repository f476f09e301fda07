package pages

import (
	"net/url"
	"sort"
	"strings"

	"github.com/jobscout/careers-crawler/internal/clients/web"
)

const (
	keywordScore = 10
	pathScore    = 6

	// externalBoardScore guarantees links into known job boards sort
	// ahead of every keyword-scored candidate.
	externalBoardScore = 1000
)

type Candidate struct {
	URL   *url.URL
	Score int
}

// ScoreLink rates an anchor's likelihood of leading towards a careers
// page. Each distinct keyword found in the visible text and labels is
// worth 10; each path keyword is worth 6. A keyword counts once no
// matter how often it occurs. Links into external job boards get an
// override score that always sorts first. Zero means not a candidate.
func ScoreLink(a web.Anchor) int {
	if IsExternalJobBoard(a.URL) {
		return externalBoardScore
	}

	combined := strings.ToLower(a.Label())
	score := 0
	for _, kw := range followKeywords {
		if strings.Contains(combined, kw) {
			score += keywordScore
		}
	}

	path := strings.ToLower(a.URL.Path)
	for _, kw := range pathKeywords {
		if strings.Contains(path, kw) {
			score += pathScore
		}
	}
	return score
}

// Candidates returns the page's positive-scoring anchors, highest
// score first, deduplicated by normalized URL.
func Candidates(p *web.Page) []Candidate {
	seen := make(map[string]bool)
	var candidates []Candidate

	for _, a := range p.Anchors() {
		score := ScoreLink(a)
		if score <= 0 {
			continue
		}
		key := Normalize(a.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, Candidate{URL: a.URL, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// DirectRecruitLink implements the depth-0 shortcut: if the homepage
// carries an anchor with recruiting text pointing at the same company
// domain, discovery jumps straight to it instead of classifying the
// homepage. External boards are never followed this way.
func DirectRecruitLink(p *web.Page) *url.URL {
	for _, a := range p.Anchors() {
		combined := strings.ToLower(a.Label())

		found := false
		for _, kw := range followKeywords {
			if strings.Contains(combined, kw) {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		if IsExternalJobBoard(a.URL) {
			continue
		}
		if SameOrg(p.URL.Host, a.URL.Host) {
			return a.URL
		}
	}
	return nil
}
