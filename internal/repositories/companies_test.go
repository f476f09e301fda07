package repositories

import (
	"context"
	"testing"

	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/stretchr/testify/assert"
)

func Test_GetDiscoverable(t *testing.T) {
	dbCtx := setupDb(t)
	repo := NewCompaniesRepository(dbCtx.DB)

	addCompany(t, dbCtx, entities.Company{Name: "needs-discovery", HomepageURL: "https://a.com"})
	addCompany(t, dbCtx, entities.Company{Name: "no-homepage"})
	addCompany(t, dbCtx, entities.Company{
		Name: "discovered", HomepageURL: "https://b.com",
		RecruitsURL: "https://b.com/careers",
		PageType:    entities.PageTypeListing, PostType: entities.PostTypeText,
	})

	companies, err := repo.GetDiscoverable(context.Background(), 10, 1)
	assert.NoError(t, err)
	assert.Len(t, companies, 1)
	assert.Equal(t, "needs-discovery", companies[0].Name)

	companies, err = repo.GetDiscoverable(context.Background(), 10, 2)
	assert.NoError(t, err)
	assert.Empty(t, companies)
}

func Test_GetCollectable(t *testing.T) {
	dbCtx := setupDb(t)
	repo := NewCompaniesRepository(dbCtx.DB)

	addCompany(t, dbCtx, entities.Company{
		Name: "collectable", HomepageURL: "https://a.com",
		RecruitsURL: "https://a.com/careers",
		PageType:    entities.PageTypeListing, PostType: entities.PostTypeText,
	})
	addCompany(t, dbCtx, entities.Company{
		Name: "image-postings", HomepageURL: "https://b.com",
		RecruitsURL: "https://b.com/careers",
		PageType:    entities.PageTypeListing, PostType: entities.PostTypeImage,
	})
	addCompany(t, dbCtx, entities.Company{
		Name: "external", HomepageURL: "https://c.com",
		RecruitsURL: "https://www.wanted.co.kr/company/1",
		PageType:    entities.PageTypeExternal, PostType: entities.PostTypeExternalLink,
	})

	companies, err := repo.GetCollectable(context.Background(), 10, 1)
	assert.NoError(t, err)
	assert.Len(t, companies, 1)
	assert.Equal(t, "collectable", companies[0].Name)
}

func Test_CommitDiscovery(t *testing.T) {
	dbCtx := setupDb(t)
	repo := NewCompaniesRepository(dbCtx.DB)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})

	err := repo.CommitDiscovery(context.Background(), company.ID, "https://acme.com/careers",
		entities.PageTypeListing, entities.PostTypeText)
	assert.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), company.ID)
	assert.NoError(t, err)
	assert.Equal(t, "https://acme.com/careers", stored.RecruitsURL)
	assert.Equal(t, entities.RecruitsURLConfirmed, stored.RecruitsURLStatus)
	assert.Equal(t, entities.PageTypeListing, stored.PageType)
	assert.False(t, stored.Discoverable())
	assert.True(t, stored.Collectable())
}

func Test_CommitDiscovery_WhenCompanyDeletedMidRun_ShouldReturnErrCompanyGone(t *testing.T) {
	dbCtx := setupDb(t)
	repo := NewCompaniesRepository(dbCtx.DB)
	company := addCompany(t, dbCtx, entities.Company{Name: "acme", HomepageURL: "https://acme.com"})

	assert.NoError(t, repo.Delete(context.Background(), company.ID))

	err := repo.CommitDiscovery(context.Background(), company.ID, "https://acme.com/careers",
		entities.PageTypeListing, entities.PostTypeText)
	assert.ErrorIs(t, err, ErrCompanyGone)

	_, err = repo.GetByID(context.Background(), company.ID)
	assert.ErrorIs(t, err, ErrCompanyGone)
}
