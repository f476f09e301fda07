package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/jobscout/careers-crawler/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.Company{})
	if err != nil {
		return fmt.Errorf("failed to migrate Company entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.JobPosting{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobPosting entity: %w", err)
	}

	// post_url uniqueness backs the upsert; the index must exist even
	// on databases created before the uniqueIndex tag.
	if err = c.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_job_postings_post_url ON job_postings (post_url);").
		Error; err != nil {
		return fmt.Errorf("failed to create posting index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
