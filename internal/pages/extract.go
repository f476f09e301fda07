package pages

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/samber/lo"
)

// Extraction floors. Heading blocks on a one-page posting must carry a
// real description; detail pages reached from a listing are trusted
// further and only need enough text for a record.
const (
	OnePageMinChars = 80
	DetailMinChars  = 40
)

// Draft is one extracted posting before persistence.
type Draft struct {
	PostURL                 string
	Title                   string
	JobDescription          string
	Qualifications          string
	PreferredQualifications string
	HiringProcess           string
	Benefits                string
	EmploymentType          string
	Salary                  string
	Location                string
}

// JobLinks collects candidate detail links from a listing page:
// same-company anchors whose visible text looks like a posting and
// does not name an administrative page (application forms, FAQ,
// process descriptions). External board links must be handled by the
// guard before calling this.
func JobLinks(p *web.Page) []string {
	seen := make(map[string]bool)
	var links []string

	for _, a := range p.Anchors() {
		if IsExternalJobBoard(a.URL) {
			continue
		}
		if !SameOrg(p.URL.Host, a.URL.Host) {
			continue
		}

		text := strings.ToLower(a.Label())
		if text == "" {
			continue
		}
		if containsAny(text, excludeAnchorSubstrings) {
			continue
		}
		if !containsAny(text, jobAnchorKeywords) {
			continue
		}

		link := Normalize(a.URL)
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	return links
}

// OnePageDrafts splits an inline careers page into posting drafts, one
// per heading block long enough to be a description. Each draft gets
// the page URL with an in-page suffix so postings from the same page
// stay distinct. A page without headings becomes a single draft when
// its whole body qualifies. Blocks still have to pass the
// job-likelihood filter; accept decides that.
func OnePageDrafts(p *web.Page, accept func(text string) bool) []Draft {

	pageURL := Normalize(p.URL)
	blocks := p.Blocks()

	if len(blocks) == 0 {
		body := p.BodyText()
		if len([]rune(body)) < OnePageMinChars || !accept(body) {
			return nil
		}
		title := p.Title()
		if title == "" {
			title = "채용 공고"
		}
		draft := Draft{PostURL: pageURL, Title: title, JobDescription: body}
		deriveFields(&draft, body)
		return []Draft{draft}
	}

	var drafts []Draft
	for i, block := range blocks {
		if len([]rune(block.Text)) < OnePageMinChars {
			continue
		}
		if !accept(block.Text) {
			continue
		}
		draft := Draft{
			PostURL:        fmt.Sprintf("%s#job-%d", pageURL, i),
			Title:          block.Title,
			JobDescription: block.Text,
		}
		deriveFields(&draft, block.Text)
		drafts = append(drafts, draft)
	}
	return drafts
}

// DetailDraft extracts a single posting from a detail page. Pages
// reached from a listing skip the job-likelihood filter: the anchor
// text already vouched for them. Directly-reached pages are filtered
// strictly. Returns false when the page does not yield a posting.
func DetailDraft(p *web.Page, fromListing bool, accept func(text string) bool) (Draft, bool) {

	title := p.Title()
	if title == "" {
		return Draft{}, false
	}

	body := p.BodyText()
	if len([]rune(body)) < DetailMinChars {
		return Draft{}, false
	}

	if !fromListing && !accept(body) {
		return Draft{}, false
	}

	draft := Draft{
		PostURL: Normalize(p.URL),
		Title:   title,
	}
	deriveFields(&draft, body)
	if draft.JobDescription == "" {
		draft.JobDescription = body
	}
	return draft, true
}

// CountFilterHits counts distinct job-likelihood keywords in the
// snippet. The filter bar is two: single hits are common in
// navigation chrome.
func CountFilterHits(text string) int {
	lower := strings.ToLower(text)
	return lo.CountBy(filterKeywords, func(kw string) bool {
		return strings.Contains(lower, kw)
	})
}

// Section labels recognized in posting bodies, per field. A block runs
// from its label to the next known label or end of text.
var (
	descriptionLabels   = []string{"주요 업무", "주요업무", "담당 업무", "담당업무", "main duties", "what you will do"}
	qualificationLabels = []string{"자격 요건", "자격요건", "필수 요건", "requirements"}
	preferredLabels     = []string{"우대 사항", "우대사항", "우대 조건", "preferred"}
	processLabels       = []string{"전형 절차", "전형절차", "채용 절차", "채용절차", "process"}
)

const boundaryLabels = `주요 업무|담당 업무|자격 요건|자격요건|우대 사항|우대사항|` +
	`전형 절차|채용 절차|복리후생|혜택|근무 조건|Requirements|Preferred|Process|$`

var salaryRe = regexp.MustCompile(`(연봉|급여)[^\d]*(\d[\d,.]+ ?만원|\d[\d,.]+ ?억|협의)`)

var (
	descriptionRes   = compileLabelPatterns(descriptionLabels)
	qualificationRes = compileLabelPatterns(qualificationLabels)
	preferredRes     = compileLabelPatterns(preferredLabels)
	processRes       = compileLabelPatterns(processLabels)
)

func compileLabelPatterns(labels []string) []*regexp.Regexp {
	return lo.Map(labels, func(label string, _ int) *regexp.Regexp {
		return regexp.MustCompile(`(?is)` + regexp.QuoteMeta(label) + `\s*[:\-]?\s*(.+?)(?:` + boundaryLabels + `)`)
	})
}

func deriveFields(draft *Draft, text string) {
	if section := labeledSection(text, descriptionRes); section != "" {
		draft.JobDescription = section
	}
	draft.Qualifications = labeledSection(text, qualificationRes)
	draft.PreferredQualifications = labeledSection(text, preferredRes)
	draft.HiringProcess = labeledSection(text, processRes)
	draft.Benefits = extractBenefits(text)
	draft.EmploymentType = extractEmploymentType(text)
	draft.Salary = extractSalary(text)
	draft.Location = extractLocation(text)
}

func labeledSection(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func extractBenefits(text string) string {
	found := lo.Filter(benefitKeywords, func(kw string, _ int) bool {
		return strings.Contains(text, kw)
	})
	return strings.Join(found, ", ")
}

func extractEmploymentType(text string) string {
	for _, t := range employmentTypes {
		if strings.Contains(text, t) {
			return t
		}
	}
	return ""
}

func extractLocation(text string) string {
	for _, region := range regionNames {
		if strings.Contains(text, region) {
			return region
		}
	}
	return ""
}

func extractSalary(text string) string {
	if m := salaryRe.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if strings.Contains(text, "연봉 협의") || strings.Contains(text, "급여 협의") {
		return "협의"
	}
	return ""
}
