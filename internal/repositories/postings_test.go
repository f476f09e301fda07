package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/stretchr/testify/assert"
)

func setupDb(t *testing.T) *DbContext {
	dbCtx, err := NewDbContext(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func addCompany(t *testing.T, dbCtx *DbContext, company entities.Company) entities.Company {
	err := NewCompaniesRepository(dbCtx.DB).Add(context.Background(), &company)
	assert.NoError(t, err)
	return company
}

func Test_Upsert_CreateThenUnchanged(t *testing.T) {
	dbCtx := setupDb(t)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})
	repo := NewPostingsRepository(dbCtx.DB)

	posting := entities.JobPosting{
		CompanyID:      company.ID,
		PostURL:        "https://acme.com/jobs/1",
		Title:          "백엔드 개발자",
		JobDescription: "서비스 개발",
	}

	result, err := repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)
	assert.Equal(t, UpsertCreated, result)

	stored, err := repo.GetByURL(context.Background(), posting.PostURL)
	assert.NoError(t, err)
	assert.Equal(t, entities.PostingStatusActive, stored.Status)

	//re-sighting identical content must not write anything
	result, err = repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)
	assert.Equal(t, UpsertUnchanged, result)
}

func Test_Upsert_UpdatesChangedFieldsOnly(t *testing.T) {
	dbCtx := setupDb(t)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})
	repo := NewPostingsRepository(dbCtx.DB)

	original := entities.JobPosting{
		CompanyID:      company.ID,
		PostURL:        "https://acme.com/jobs/1",
		Title:          "백엔드 개발자",
		JobDescription: "서비스 개발",
		Location:       "서울",
	}
	_, err := repo.Upsert(context.Background(), original)
	assert.NoError(t, err)

	//empty extracted fields never erase stored values
	changed := original
	changed.Title = "백엔드 개발자 (경력)"
	changed.Location = ""

	result, err := repo.Upsert(context.Background(), changed)
	assert.NoError(t, err)
	assert.Equal(t, UpsertUpdated, result)

	stored, err := repo.GetByURL(context.Background(), original.PostURL)
	assert.NoError(t, err)
	assert.Equal(t, "백엔드 개발자 (경력)", stored.Title)
	assert.Equal(t, "서울", stored.Location)
}

func Test_Upsert_ReactivatesInactivePosting(t *testing.T) {
	dbCtx := setupDb(t)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})
	repo := NewPostingsRepository(dbCtx.DB)

	posting := entities.JobPosting{
		CompanyID:      company.ID,
		PostURL:        "https://acme.com/jobs/1",
		Title:          "백엔드 개발자",
		JobDescription: "서비스 개발",
	}
	_, err := repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)

	err = dbCtx.DB.Model(&entities.JobPosting{}).
		Where("post_url = ?", posting.PostURL).
		UpdateColumn("status", entities.PostingStatusInactive).Error
	assert.NoError(t, err)

	result, err := repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)
	assert.Equal(t, UpsertUpdated, result)

	stored, err := repo.GetByURL(context.Background(), posting.PostURL)
	assert.NoError(t, err)
	assert.Equal(t, entities.PostingStatusActive, stored.Status)
}

func Test_Upsert_TruncatesBeforeDiff(t *testing.T) {
	dbCtx := setupDb(t)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})
	repo := NewPostingsRepository(dbCtx.DB)

	posting := entities.JobPosting{
		CompanyID:      company.ID,
		PostURL:        "https://acme.com/jobs/1",
		Title:          strings.Repeat("가", 300),
		JobDescription: "서비스 개발",
	}

	_, err := repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)

	stored, err := repo.GetByURL(context.Background(), posting.PostURL)
	assert.NoError(t, err)
	assert.Equal(t, maxTitle, len([]rune(stored.Title)))

	//the same overlong title truncates to the stored value, so the
	//re-sighting converges to zero writes
	result, err := repo.Upsert(context.Background(), posting)
	assert.NoError(t, err)
	assert.Equal(t, UpsertUnchanged, result)
}

func Test_MarkStale(t *testing.T) {
	dbCtx := setupDb(t)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})
	repo := NewPostingsRepository(dbCtx.DB)

	_, err := repo.Upsert(context.Background(), entities.JobPosting{
		CompanyID:      company.ID,
		PostURL:        "https://acme.com/jobs/1",
		Title:          "백엔드 개발자",
		JobDescription: "서비스 개발",
	})
	assert.NoError(t, err)

	affected, err := repo.MarkStale(context.Background(), time.Now().Add(-time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	affected, err = repo.MarkStale(context.Background(), time.Now().Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	stored, err := repo.GetByURL(context.Background(), "https://acme.com/jobs/1")
	assert.NoError(t, err)
	assert.Equal(t, entities.PostingStatusInactive, stored.Status)
}
