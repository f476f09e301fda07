package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/jobscout/careers-crawler/internal/repositories"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

// mockFetcher serves canned HTML keyed by the requested URL.
type mockFetcher struct {
	pages map[string]string
}

func (m *mockFetcher) Get(_ context.Context, rawURL string) (*web.Page, error) {
	html, ok := m.pages[rawURL]
	if !ok {
		return nil, errors.Errorf("no page for %v", rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return web.NewPageFromHTML(u, strings.NewReader(html))
}

type mockCompanies struct {
	mock.Mock
}

func (m *mockCompanies) CommitDiscovery(ctx context.Context, companyID int, recruitsURL string,
	pageType entities.PageType, postType entities.PostType) error {
	return m.Called(ctx, companyID, recruitsURL, pageType, postType).Error(0)
}

type mockPostings struct {
	mock.Mock
}

func (m *mockPostings) Upsert(ctx context.Context, posting entities.JobPosting) (repositories.UpsertResult, error) {
	args := m.Called(ctx, posting)
	return args.Get(0).(repositories.UpsertResult), args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) IsJobPosting(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) GenerateResponse(ctx context.Context, request string) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}
