package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/jobscout/careers-crawler/internal/events"
	"github.com/jobscout/careers-crawler/internal/logger"
	"github.com/jobscout/careers-crawler/internal/metrics"
	"github.com/jobscout/careers-crawler/internal/pages"
	"github.com/jobscout/careers-crawler/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrExternalPlatform signals that a page crawled during collection
// turned out to link into an external job board. The company descriptor
// is rewritten before this is returned; the caller just stops the run.
var ErrExternalPlatform = errors.New("company moved postings to an external platform")

// minFilterHits is the job-likelihood bar: a snippet needs this many
// distinct keywords before it counts as a posting on its own.
const minFilterHits = 2

type postingRepository interface {
	Upsert(ctx context.Context, posting entities.JobPosting) (repositories.UpsertResult, error)
}

type jobClassifier interface {
	IsJobPosting(ctx context.Context, text string) (bool, error)
}

// Collector extracts job postings from companies with a confirmed
// careers page. Listing pages are walked into their detail pages;
// one-page and main pages are split by headings in place.
type Collector struct {
	bus       EventBus.Bus
	fetcher   pageFetcher
	companies discoveryRepository
	postings  postingRepository
	// classifier is optional; without it the keyword filter decides
	// alone. It can only accept snippets the keywords rejected, never
	// the other way around.
	classifier jobClassifier
	cache      *gocache.Cache
}

func NewCollector(bus EventBus.Bus, fetcher pageFetcher, companies discoveryRepository,
	postings postingRepository, classifier jobClassifier) *Collector {

	return &Collector{
		bus:        bus,
		fetcher:    fetcher,
		companies:  companies,
		postings:   postings,
		classifier: classifier,
		cache:      gocache.New(10*time.Minute, 20*time.Minute),
	}
}

// CollectCompany runs one extraction pass over a company's careers
// page. Returns ErrExternalPlatform when the guard trips mid-run.
func (c *Collector) CollectCompany(ctx context.Context, company entities.Company) error {

	if !company.Collectable() {
		return errors.Errorf("company %v is not collectable", company.ID)
	}

	start := time.Now()
	defer func() {
		metrics.StepDuration.WithLabelValues("collection").Observe(time.Since(start).Seconds())
	}()

	page, err := c.fetch(ctx, company.RecruitsURL)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch careers page of company %v", company.ID)
	}

	if err := c.checkGuard(ctx, company, page); err != nil {
		return err
	}

	var drafts []pages.Draft
	if company.PageType == entities.PageTypeListing {
		drafts, err = c.collectFromListing(ctx, company, page)
		if err != nil {
			return err
		}
	} else {
		drafts = pages.OnePageDrafts(page, c.acceptAsJob(ctx))
	}

	saved := 0
	for _, draft := range drafts {
		if err := c.saveDraft(ctx, company, draft); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to save posting %v: %v", draft.PostURL, err)
			continue
		}
		saved++
	}

	log.Infof("collected %v postings for company %v", saved, company.ID)
	return nil
}

// collectFromListing harvests detail links and extracts a posting from
// each. A listing that yields no harvestable links is retried as a
// one-page document: some boards inline their postings under the same
// template that produced the listing classification.
func (c *Collector) collectFromListing(ctx context.Context, company entities.Company,
	listing *web.Page) ([]pages.Draft, error) {

	links := pages.JobLinks(listing)
	if len(links) == 0 {
		return pages.OnePageDrafts(listing, c.acceptAsJob(ctx)), nil
	}

	var drafts []pages.Draft
	for _, link := range links {

		select {
		case <-ctx.Done():
			return drafts, ctx.Err()
		default:
		}

		detail, err := c.fetch(ctx, link)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeFetch).
				Errorf("failed to fetch detail page %v: %v", link, err)
			continue
		}

		if err := c.checkGuard(ctx, company, detail); err != nil {
			return drafts, err
		}

		if draft, ok := pages.DetailDraft(detail, true, c.acceptAsJob(ctx)); ok {
			drafts = append(drafts, draft)
		}
	}
	return drafts, nil
}

// checkGuard rewrites the company descriptor and aborts the run when a
// crawled page links into a known job board. The next discovery or
// collection cycle will see the external descriptor and skip the
// company.
func (c *Collector) checkGuard(ctx context.Context, company entities.Company, p *web.Page) error {

	external := pages.ExternalJobLink(p)
	if external == nil {
		return nil
	}

	err := c.companies.CommitDiscovery(ctx, company.ID, pages.Normalize(p.URL),
		entities.PageTypeExternal, entities.PostTypeExternalLink)
	if err != nil {
		return err
	}

	log.Infof("company %v moved postings to external platform %v", company.ID, external)
	return ErrExternalPlatform
}

// acceptAsJob is the job-likelihood filter. Verdicts are cached by text
// hash so re-sighted snippets within a run window skip both the keyword
// scan and the classifier call.
func (c *Collector) acceptAsJob(ctx context.Context) func(text string) bool {
	return func(text string) bool {

		cacheID := createTextCacheID(text)
		if verdict, found := c.cache.Get(cacheID); found {
			return verdict.(bool)
		}

		accepted := c.judgeText(ctx, text)
		if !accepted {
			metrics.RejectedByFilterCounter.Inc()
		}

		if err := c.cache.Add(cacheID, accepted, gocache.DefaultExpiration); err != nil {
			log.Errorf("failed to cache filter verdict: %v", err)
		}
		return accepted
	}
}

func (c *Collector) judgeText(ctx context.Context, text string) bool {

	if pages.CountFilterHits(text) >= minFilterHits {
		return true
	}

	if c.classifier == nil {
		return false
	}

	start := time.Now()
	isJob, err := c.classifier.IsJobPosting(ctx, text)
	metrics.StepDuration.WithLabelValues("ai_classification").Observe(time.Since(start).Seconds())

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
				Errorf("failed to classify snippet: %v", err)
		}
		return false
	}
	return isJob
}

func (c *Collector) saveDraft(ctx context.Context, company entities.Company, draft pages.Draft) error {

	posting := entities.JobPosting{
		CompanyID:               company.ID,
		PostURL:                 draft.PostURL,
		Title:                   draft.Title,
		JobDescription:          draft.JobDescription,
		Qualifications:          draft.Qualifications,
		PreferredQualifications: draft.PreferredQualifications,
		HiringProcess:           draft.HiringProcess,
		Benefits:                draft.Benefits,
		EmploymentType:          draft.EmploymentType,
		Salary:                  draft.Salary,
		Location:                draft.Location,
	}

	result, err := c.postings.Upsert(ctx, posting)
	if err != nil {
		return err
	}

	switch result {
	case repositories.UpsertCreated:
		metrics.PostingsCreatedCounter.Inc()
		event := events.PostingFound{
			CompanyID:   company.ID,
			CompanyName: company.Name,
			Title:       draft.Title,
			Url:         draft.PostURL,
		}
		c.bus.Publish(events.PostingFoundTopic, event)
	case repositories.UpsertUpdated:
		metrics.PostingsUpdatedCounter.Inc()
	}
	return nil
}

func (c *Collector) fetch(ctx context.Context, url string) (*web.Page, error) {
	page, err := c.fetcher.Get(ctx, url)
	if err == nil {
		metrics.PagesFetchedCounter.Inc()
	}
	return page, err
}

func createTextCacheID(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
