package pages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func acceptAll(string) bool { return true }
func rejectAll(string) bool { return false }

func Test_JobLinks(t *testing.T) {
	html := `<html><body>
	<a href="/jobs/1">백엔드 개발자 채용</a>
	<a href="/jobs/1#apply">백엔드 개발자 채용</a>
	<a href="/faq">채용 FAQ</a>
	<a href="/process">채용 절차 안내</a>
	<a href="https://www.saramin.co.kr/job/1">사람인에서 보기</a>
	<a href="https://other-site.com/jobs/2">타사 채용</a>
	<a href="/notice">공지사항</a>
	</body></html>`
	page := makePage(t, "https://example.com/careers", html)

	links := JobLinks(page)

	assert.Equal(t, []string{"https://example.com/jobs/1"}, links)
}

func Test_OnePageDrafts_SplitsByHeadings(t *testing.T) {
	longBody := strings.Repeat("백엔드 서비스 개발과 운영을 담당합니다. ", 5)
	html := `<html><body>
	<h2>백엔드 개발자</h2><p>` + longBody + `</p>
	<h2>짧은 항목</h2><p>너무 짧은 내용</p>
	</body></html>`
	page := makePage(t, "https://example.com/recruit", html)

	drafts := OnePageDrafts(page, acceptAll)

	assert.Len(t, drafts, 1)
	assert.Equal(t, "백엔드 개발자", drafts[0].Title)
	assert.Equal(t, "https://example.com/recruit#job-0", drafts[0].PostURL)
}

func Test_OnePageDrafts_WithoutHeadings_UsesWholeBody(t *testing.T) {
	body := strings.Repeat("프론트엔드 개발자를 모집합니다. 많은 지원 바랍니다. ", 4)
	page := makePage(t, "https://example.com/recruit", `<html><body><p>`+body+`</p></body></html>`)

	drafts := OnePageDrafts(page, acceptAll)

	assert.Len(t, drafts, 1)
	assert.Equal(t, "https://example.com/recruit", drafts[0].PostURL)
	assert.Equal(t, "채용 공고", drafts[0].Title)
}

func Test_OnePageDrafts_RespectsFilter(t *testing.T) {
	body := strings.Repeat("프론트엔드 개발자를 모집합니다. 많은 지원 바랍니다. ", 4)
	page := makePage(t, "https://example.com/recruit", `<html><body><p>`+body+`</p></body></html>`)

	assert.Empty(t, OnePageDrafts(page, rejectAll))
}

func Test_DetailDraft_FromListingLeniency(t *testing.T) {
	//45 chars of body: enough for a detail page reached from a
	//listing, whose anchor already vouched for it
	html := `<html><head><title>백엔드 개발자</title></head><body>
	<p>백엔드 서비스 개발을 담당할 분을 찾습니다. 이메일로 문의해 주세요. 감사합니다.</p>
	</body></html>`
	page := makePage(t, "https://example.com/jobs/1", html)

	draft, ok := DetailDraft(page, true, rejectAll)
	assert.True(t, ok)
	assert.Equal(t, "백엔드 개발자", draft.Title)
	assert.NotEmpty(t, draft.JobDescription)

	_, ok = DetailDraft(page, false, rejectAll)
	assert.False(t, ok)
}

func Test_DetailDraft_WhenNoTitle_ShouldReject(t *testing.T) {
	page := makePage(t, "https://example.com/jobs/1",
		`<html><body><p>`+strings.Repeat("내용 ", 40)+`</p></body></html>`)

	_, ok := DetailDraft(page, true, acceptAll)
	assert.False(t, ok)
}

func Test_DeriveFields(t *testing.T) {
	text := "주요 업무: 백엔드 API 개발 자격요건: Go 경력 3년 이상 우대사항: 대규모 트래픽 경험 " +
		"전형 절차: 서류 면접 최종합격 근무지는 서울 본사이며 정규직으로 연봉 4,500만원 수준입니다. " +
		"식대 지원과 재택근무 제도가 있습니다."

	var draft Draft
	deriveFields(&draft, text)

	assert.Contains(t, draft.JobDescription, "백엔드 API 개발")
	assert.Contains(t, draft.Qualifications, "Go 경력 3년 이상")
	assert.Contains(t, draft.PreferredQualifications, "대규모 트래픽 경험")
	assert.Contains(t, draft.HiringProcess, "서류 면접")
	assert.Equal(t, "정규직", draft.EmploymentType)
	assert.Equal(t, "서울", draft.Location)
	assert.Equal(t, "연봉 4,500만원", draft.Salary)
	assert.Equal(t, "식대, 재택근무", draft.Benefits)
}

func Test_ExtractSalary_Negotiable(t *testing.T) {
	assert.Equal(t, "연봉 협의", extractSalary("연봉 협의 후 결정"))
	assert.Equal(t, "", extractSalary("급여에 대한 언급 없음"))
}

func Test_CountFilterHits(t *testing.T) {
	assert.GreaterOrEqual(t, CountFilterHits("신입 및 경력 개발자 모집"), 2)
	assert.Equal(t, 0, CountFilterHits("회사 소개와 연혁"))
	assert.Equal(t, 1, CountFilterHits("recruit"))
}
