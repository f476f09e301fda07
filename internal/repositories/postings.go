package repositories

import (
	"context"
	"time"

	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UpsertResult int

const (
	UpsertUnchanged UpsertResult = iota
	UpsertCreated
	UpsertUpdated
)

// Field maxima. Values are truncated before comparison, not after, so
// re-running extraction on an unchanged page converges to zero writes
// instead of oscillating.
const (
	maxTitle          = 255
	maxDescription    = 20000
	maxQualifications = 10000
	maxPreferred      = 10000
	maxProcess        = 5000
	maxBenefits       = 5000
	maxEmploymentType = 50
	maxSalary         = 255
	maxLocation       = 255
)

type Postings struct {
	db *gorm.DB
}

func NewPostingsRepository(db *gorm.DB) *Postings {
	return &Postings{db: db}
}

// Upsert persists a posting keyed by its canonical URL. First sighting
// inserts with status active; re-sighting diffs field by field and
// writes only when something changed, always forcing status back to
// active. Empty extracted fields never overwrite stored values.
func (repo *Postings) Upsert(ctx context.Context, posting entities.JobPosting) (UpsertResult, error) {

	truncateFields(&posting)

	var existing entities.JobPosting
	err := repo.db.WithContext(ctx).First(&existing, "post_url = ?", posting.PostURL).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return UpsertUnchanged, err
		}
		posting.Status = entities.PostingStatusActive
		if err = repo.db.WithContext(ctx).Create(&posting).Error; err != nil {
			return UpsertUnchanged, err
		}
		return UpsertCreated, nil
	}

	changed := false
	apply := func(stored *string, extracted string) {
		if extracted != "" && *stored != extracted {
			*stored = extracted
			changed = true
		}
	}

	apply(&existing.Title, posting.Title)
	apply(&existing.JobDescription, posting.JobDescription)
	apply(&existing.Qualifications, posting.Qualifications)
	apply(&existing.PreferredQualifications, posting.PreferredQualifications)
	apply(&existing.HiringProcess, posting.HiringProcess)
	apply(&existing.Benefits, posting.Benefits)
	apply(&existing.EmploymentType, posting.EmploymentType)
	apply(&existing.Salary, posting.Salary)
	apply(&existing.Location, posting.Location)

	if existing.Status != entities.PostingStatusActive {
		existing.Status = entities.PostingStatusActive
		changed = true
	}

	if !changed {
		return UpsertUnchanged, nil
	}
	if err = repo.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return UpsertUnchanged, err
	}
	return UpsertUpdated, nil
}

func (repo *Postings) GetByURL(ctx context.Context, postURL string) (*entities.JobPosting, error) {
	var posting entities.JobPosting
	if err := repo.db.WithContext(ctx).First(&posting, "post_url = ?", postURL).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

func (repo *Postings) GetByCompany(ctx context.Context, companyID int) ([]entities.JobPosting, error) {
	var postings []entities.JobPosting
	if err := repo.db.WithContext(ctx).Find(&postings, "company_id = ?", companyID).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

// MarkStale flags postings that have not been re-sighted since the
// cutoff as inactive. Re-extraction flips them back to active.
func (repo *Postings) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	// UpdateColumn keeps crawled_at untouched: it records sightings,
	// not sweeps.
	res := repo.db.WithContext(ctx).Model(&entities.JobPosting{}).
		Where("crawled_at < ? AND status = ?", cutoff, entities.PostingStatusActive).
		UpdateColumn("status", entities.PostingStatusInactive)
	return res.RowsAffected, res.Error
}

func truncateFields(posting *entities.JobPosting) {
	posting.Title = truncate(posting.Title, maxTitle)
	posting.JobDescription = truncate(posting.JobDescription, maxDescription)
	posting.Qualifications = truncate(posting.Qualifications, maxQualifications)
	posting.PreferredQualifications = truncate(posting.PreferredQualifications, maxPreferred)
	posting.HiringProcess = truncate(posting.HiringProcess, maxProcess)
	posting.Benefits = truncate(posting.Benefits, maxBenefits)
	posting.EmploymentType = truncate(posting.EmploymentType, maxEmploymentType)
	posting.Salary = truncate(posting.Salary, maxSalary)
	posting.Location = truncate(posting.Location, maxLocation)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
