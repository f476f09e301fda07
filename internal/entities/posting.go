package entities

import "time"

const (
	PostingStatusActive   = "active"
	PostingStatusInactive = "inactive"
)

type JobPosting struct {
	ID                      int     `gorm:"primaryKey"`
	CompanyID               int     `gorm:"index"`
	Company                 Company `gorm:"constraint:OnDelete:CASCADE"`
	PostURL                 string  `gorm:"uniqueIndex;size:2083"`
	Title                   string  `gorm:"size:255"`
	JobDescription          string
	Qualifications          string
	PreferredQualifications string
	HiringProcess           string
	Benefits                string
	EmploymentType          string `gorm:"size:50"`
	Salary                  string `gorm:"size:255"`
	Location                string `gorm:"size:255"`
	Status                  string `gorm:"size:20"`
	CreatedAt               time.Time
	CrawledAt               time.Time `gorm:"autoUpdateTime"`
}
