package services

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/jobscout/careers-crawler/internal/events"
	"github.com/jobscout/careers-crawler/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func collectableCompany(pageType entities.PageType) entities.Company {
	return entities.Company{
		ID:          1,
		Name:        "acme",
		HomepageURL: "https://acme.com",
		RecruitsURL: "https://acme.com/recruit",
		PageType:    pageType,
		PostType:    entities.PostTypeText,
	}
}

func Test_CollectCompany_OnePage_PublishesPostingFound(t *testing.T) {

	fetcher := &mockFetcher{pages: map[string]string{
		"https://acme.com/recruit": `<html><body>
		<h2>백엔드 개발자</h2>
		<p>백엔드 개발자를 모집합니다. 서비스 개발과 운영을 담당하며 많은 지원 바랍니다.
		경력 3년 이상 우대하며 근무지는 서울입니다. 자세한 내용은 본문을 참고하세요.</p>
		</body></html>`,
	}}
	postings := &mockPostings{}
	postings.On("Upsert", mock.Anything, mock.MatchedBy(func(p entities.JobPosting) bool {
		return p.CompanyID == 1 && p.PostURL == "https://acme.com/recruit#job-0"
	})).Return(repositories.UpsertCreated, nil).Once()

	bus := EventBus.New()
	var published []events.PostingFound
	err := bus.Subscribe(events.PostingFoundTopic, func(e events.PostingFound) {
		published = append(published, e)
	})
	assert.NoError(t, err)

	collector := NewCollector(bus, fetcher, &mockCompanies{}, postings, nil)

	err = collector.CollectCompany(context.Background(), collectableCompany(entities.PageTypeOnePage))

	assert.NoError(t, err)
	postings.AssertExpectations(t)
	assert.Len(t, published, 1)
	assert.Equal(t, "acme", published[0].CompanyName)
	assert.Equal(t, "백엔드 개발자", published[0].Title)
}

func Test_CollectCompany_Listing_WalksDetailPages(t *testing.T) {

	fetcher := &mockFetcher{pages: map[string]string{
		"https://acme.com/recruit": `<html><body>
		<p>채용 중인 포지션</p>
		<a href="/jobs/1">백엔드 개발자 채용</a>
		</body></html>`,
		"https://acme.com/jobs/1": `<html><head><title>백엔드 개발자</title></head><body>
		<p>백엔드 서비스 개발을 담당할 분을 찾습니다. 이메일로 문의해 주세요. 감사합니다.</p>
		</body></html>`,
	}}
	postings := &mockPostings{}
	postings.On("Upsert", mock.Anything, mock.MatchedBy(func(p entities.JobPosting) bool {
		return p.PostURL == "https://acme.com/jobs/1" && p.Title == "백엔드 개발자"
	})).Return(repositories.UpsertCreated, nil).Once()

	collector := NewCollector(EventBus.New(), fetcher, &mockCompanies{}, postings, nil)

	err := collector.CollectCompany(context.Background(), collectableCompany(entities.PageTypeListing))

	assert.NoError(t, err)
	postings.AssertExpectations(t)
}

func Test_CollectCompany_WhenGuardTrips_ShouldRewriteDescriptor(t *testing.T) {

	fetcher := &mockFetcher{pages: map[string]string{
		"https://acme.com/recruit": `<html><body>
		<p>이제 사람인에서 채용합니다</p>
		<a href="https://www.saramin.co.kr/job/1">사람인으로 이동</a>
		</body></html>`,
	}}
	companies := &mockCompanies{}
	companies.On("CommitDiscovery", mock.Anything, 1, "https://acme.com/recruit",
		entities.PageTypeExternal, entities.PostTypeExternalLink).Return(nil).Once()
	postings := &mockPostings{}

	collector := NewCollector(EventBus.New(), fetcher, companies, postings, nil)

	err := collector.CollectCompany(context.Background(), collectableCompany(entities.PageTypeOnePage))

	assert.ErrorIs(t, err, ErrExternalPlatform)
	companies.AssertExpectations(t)
	postings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func Test_CollectCompany_ClassifierCanAcceptWhatKeywordsRejected(t *testing.T) {

	//the block reads like a posting to a human but avoids every
	//filter keyword, so only the classifier can let it through
	page := `<html><body>
	<h2>서버 엔지니어</h2>
	<p>분산 시스템을 설계하고 운영할 분을 찾고 있습니다. 대용량 트래픽 환경에서의
	개발 업무를 함께 하게 됩니다. 관심 있으신 분은 이메일로 연락해 주세요.</p>
	</body></html>`
	fetcher := &mockFetcher{pages: map[string]string{"https://acme.com/recruit": page}}

	classifier := &mockClassifier{}
	classifier.On("IsJobPosting", mock.Anything, mock.Anything).Return(true, nil).Once()

	postings := &mockPostings{}
	postings.On("Upsert", mock.Anything, mock.Anything).Return(repositories.UpsertCreated, nil).Once()

	collector := NewCollector(EventBus.New(), fetcher, &mockCompanies{}, postings, classifier)

	err := collector.CollectCompany(context.Background(), collectableCompany(entities.PageTypeOnePage))

	assert.NoError(t, err)
	classifier.AssertExpectations(t)
	postings.AssertExpectations(t)
}

func Test_CollectCompany_WithoutClassifier_RejectsBelowKeywordBar(t *testing.T) {

	page := `<html><body>
	<h2>서버 엔지니어</h2>
	<p>분산 시스템을 설계하고 운영할 분을 찾고 있습니다. 대용량 트래픽 환경에서의
	개발 업무를 함께 하게 됩니다. 관심 있으신 분은 이메일로 연락해 주세요.</p>
	</body></html>`
	fetcher := &mockFetcher{pages: map[string]string{"https://acme.com/recruit": page}}
	postings := &mockPostings{}

	collector := NewCollector(EventBus.New(), fetcher, &mockCompanies{}, postings, nil)

	err := collector.CollectCompany(context.Background(), collectableCompany(entities.PageTypeOnePage))

	assert.NoError(t, err)
	postings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
