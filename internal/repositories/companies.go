package repositories

import (
	"context"

	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrCompanyGone signals that a company was deleted while a crawl for
// it was still running: the descriptor update matched zero rows.
var ErrCompanyGone = errors.New("company no longer exists")

type Companies struct {
	db *gorm.DB
}

func NewCompaniesRepository(db *gorm.DB) *Companies {
	return &Companies{db: db}
}

func (repo *Companies) Add(ctx context.Context, company *entities.Company) error {
	return repo.db.WithContext(ctx).Create(company).Error
}

func (repo *Companies) GetByID(ctx context.Context, id int) (*entities.Company, error) {
	var company entities.Company
	err := repo.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyGone
		}
		return nil, err
	}
	return &company, nil
}

// GetDiscoverable pages through companies whose homepage is known but
// whose careers page has not been found yet. pageNum starts at 1.
func (repo *Companies) GetDiscoverable(ctx context.Context, pageSize int, pageNum int) ([]entities.Company, error) {
	var companies []entities.Company
	err := repo.db.WithContext(ctx).
		Where("homepage_url <> '' AND recruits_url = ''").
		Order("id").
		Limit(pageSize).Offset(pageSize * (pageNum - 1)).
		Find(&companies).Error
	return companies, err
}

// GetCollectable pages through companies whose discovered careers page
// can be extracted: text postings on a listing, one-page or main page.
func (repo *Companies) GetCollectable(ctx context.Context, pageSize int, pageNum int) ([]entities.Company, error) {
	var companies []entities.Company
	err := repo.db.WithContext(ctx).
		Where("recruits_url <> '' AND post_type = ? AND page_type IN ?",
			entities.PostTypeText,
			[]entities.PageType{entities.PageTypeListing, entities.PageTypeOnePage, entities.PageTypeMain}).
		Order("id").
		Limit(pageSize).Offset(pageSize * (pageNum - 1)).
		Find(&companies).Error
	return companies, err
}

// CommitDiscovery writes the page descriptor in one atomic update. It
// is called at most once per discovery run, and only with a fully
// formed decision. A zero-row update means the company was deleted
// mid-run.
func (repo *Companies) CommitDiscovery(ctx context.Context, companyID int, recruitsURL string,
	pageType entities.PageType, postType entities.PostType) error {

	res := repo.db.WithContext(ctx).Model(&entities.Company{}).Where("id = ?", companyID).
		Updates(map[string]any{
			"recruits_url":        recruitsURL,
			"recruits_url_status": entities.RecruitsURLConfirmed,
			"page_type":           pageType,
			"post_type":           postType,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCompanyGone
	}
	return nil
}

// Delete removes a company and, via the FK constraint, its postings.
func (repo *Companies) Delete(ctx context.Context, id int) error {
	return repo.db.WithContext(ctx).Delete(&entities.Company{}, "id = ?", id).Error
}
