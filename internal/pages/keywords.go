package pages

// Keyword tables driving classification and extraction. They are kept
// as data, separate from traversal code, so the heuristics can be
// tested and tuned in isolation. All entries are lowercase; matching
// is case-insensitive substring matching over UTF-8 text.

// followKeywords mark anchors worth following during discovery. A
// distinct hit in the anchor's visible text or label is worth 10
// points.
var followKeywords = []string{
	"채용공고", "채용 안내", "채용안내", "채용 정보", "채용정보", "채용",
	"인재채용", "인재 모집", "입사지원", "채용사이트", "채용절차",
	"recruit", "recruitment", "career", "careers", "jobs",
	"employment", "join us", "open positions",
}

// pathKeywords are a smaller set matched against the URL path only,
// worth 6 points each. URLs rarely carry Korean path segments, so the
// set is English-only.
var pathKeywords = []string{"career", "recruit", "join", "hire"}

// externalJobDomains are third-party job boards. Any link into one of
// them makes the whole page an external redirect.
var externalJobDomains = []string{
	"wanted.co.kr",
	"saramin.co.kr",
	"jobkorea.co.kr",
}

// recruitingKeywords are the generic terms a careers page body must
// contain before listing/one-page classification is even considered.
var recruitingKeywords = []string{"채용", "recruit", "career", "jobs", "employment"}

// listingAnchorKeywords indicate anchors that look like individual
// posting rows or cards on a board-style listing.
var listingAnchorKeywords = []string{
	"모집", "공고", "지원", "상세", "보기",
	"position", "apply", "view", "detail", "more",
}

// processPhrases indicate inline posting content: application and
// screening instructions that only appear inside an actual notice.
var processPhrases = []string{
	"지원방법", "지원 방법", "전형절차", "전형 절차",
	"제출서류", "제출 서류", "모집분야", "모집 분야", "입사지원",
}

// jobAnchorKeywords select candidate detail links on a listing page.
var jobAnchorKeywords = []string{
	"채용", "모집", "인턴", "구인", "경력", "신입", "구합니다",
	"recruit", "recruitment", "job", "jobs", "career", "careers",
}

// excludeAnchorSubstrings name administrative pages that share the
// posting vocabulary but are never postings themselves.
var excludeAnchorSubstrings = []string{
	"모집절차", "모집 절차", "채용 절차", "전형 절차", "지원 절차",
	"지원서 수정", "지원서 확인", "나의 지원서", "지원 현황", "faq",
}

// filterKeywords feed the job-likelihood filter: a snippet needs at
// least two distinct hits to pass.
var filterKeywords = []string{
	"채용", "모집", "지원", "입사지원", "jobs", "recruit", "position", "경력", "신입",
}

var benefitKeywords = []string{
	"식대", "재택근무", "건강검진", "교육비", "사내스터디", "컨퍼런스참가비",
	"운동비", "도서구입비", "경조사비", "경조휴가", "스톡옵션", "자율출퇴근제",
}

var regionNames = []string{
	"서울", "경기", "인천", "부산", "대구", "대전", "광주", "울산", "세종",
	"충북", "충남", "전북", "전남", "경북", "경남", "강원", "제주",
}

// employmentTypes are checked in order; the first match wins.
var employmentTypes = []string{"정규직", "계약직", "인턴", "파트타임"}
