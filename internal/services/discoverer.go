package services

import (
	"context"
	"sync"
	"time"

	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/jobscout/careers-crawler/internal/logger"
	"github.com/jobscout/careers-crawler/internal/metrics"
	"github.com/jobscout/careers-crawler/internal/pages"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type pageFetcher interface {
	Get(ctx context.Context, url string) (*web.Page, error)
}

type discoveryRepository interface {
	CommitDiscovery(ctx context.Context, companyID int, recruitsURL string,
		pageType entities.PageType, postType entities.PostType) error
}

// Discovery is the descriptor committed for a found careers page.
type Discovery struct {
	RecruitsURL string
	PageType    entities.PageType
	PostType    entities.PostType
}

// Discoverer walks a company's site from its homepage looking for the
// careers page. Traversal is breadth-first and depth-bounded; pages of
// one depth level are fetched concurrently but classified sequentially,
// and the first decided classification wins.
type Discoverer struct {
	fetcher     pageFetcher
	companies   discoveryRepository
	maxDepth    int
	concurrency int
	thresholds  pages.Thresholds
}

func NewDiscoverer(fetcher pageFetcher, companies discoveryRepository,
	maxDepth int, concurrency int) (*Discoverer, error) {

	if maxDepth <= 0 || concurrency <= 0 {
		return nil, errors.New("max depth and concurrency must be greater than zero")
	}

	return &Discoverer{
		fetcher:     fetcher,
		companies:   companies,
		maxDepth:    maxDepth,
		concurrency: concurrency,
		thresholds:  pages.DefaultThresholds(),
	}, nil
}

// DiscoverCompany runs discovery for one company. A nil result with a
// nil error means the traversal exhausted its budget without a decided
// classification; the company keeps its empty descriptor and will be
// retried on a later cycle. A homepage fetch failure is an error: the
// company is unresolved, not undiscoverable.
func (d *Discoverer) DiscoverCompany(ctx context.Context, company entities.Company) (*Discovery, error) {

	if !company.Discoverable() {
		return nil, errors.Errorf("company %v is not discoverable", company.ID)
	}

	start := time.Now()
	defer func() {
		metrics.StepDuration.WithLabelValues("discovery").Observe(time.Since(start).Seconds())
	}()

	root, err := d.fetch(ctx, company.HomepageURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch homepage of company %v", company.ID)
	}

	visited := map[string]bool{pages.Normalize(root.URL): true}

	discovery, carryover := d.tryDirectRecruitLink(ctx, root, visited)
	if discovery != nil {
		return discovery, d.commit(ctx, company.ID, discovery)
	}

	if discovery := d.classify(root, 0); discovery != nil {
		return discovery, d.commit(ctx, company.ID, discovery)
	}

	frontier := d.nextFrontier(root, visited)

	for depth := 1; depth <= d.maxDepth && (len(frontier) > 0 || len(carryover) > 0); depth++ {

		var next []string
		var discovery *Discovery

		for result := range d.fetchLevel(ctx, frontier) {
			if discovery != nil { //late completions after the first decision are discarded
				continue
			}
			if result.err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeFetch).
					Errorf("failed to fetch candidate %v for company %v: %v", result.url, company.ID, result.err)
				continue
			}
			if discovery = d.classify(result.page, depth); discovery == nil {
				next = append(next, d.nextFrontier(result.page, visited)...)
			}
		}

		if discovery != nil {
			return discovery, d.commit(ctx, company.ID, discovery)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		//candidates off an undecided direct recruit jump already sit one
		//level deep, so they join the frontier after the depth-1 pass
		frontier = append(next, carryover...)
		carryover = nil
	}

	log.Infof("no careers page found for company %v within depth %v", company.ID, d.maxDepth)
	return nil, nil
}

// tryDirectRecruitLink follows a homepage anchor with explicit
// recruiting text straight away, before classifying the homepage
// itself. A failed jump falls back to normal traversal; an undecided
// one counts as a real depth-1 visit, so its own candidates are
// returned to be searched at the next level.
func (d *Discoverer) tryDirectRecruitLink(ctx context.Context, root *web.Page, visited map[string]bool) (*Discovery, []string) {

	link := pages.DirectRecruitLink(root)
	if link == nil {
		return nil, nil
	}

	visited[pages.Normalize(link)] = true

	page, err := d.fetch(ctx, link.String())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFetch).
			Errorf("failed to fetch direct recruit link %v: %v", link, err)
		return nil, nil
	}

	if discovery := d.classify(page, 1); discovery != nil {
		return discovery, nil
	}
	return nil, d.nextFrontier(page, visited)
}

func (d *Discoverer) classify(p *web.Page, depth int) *Discovery {

	classification := pages.Classify(p, depth, d.thresholds)
	if !classification.Decided {
		return nil
	}

	// external pages record the page carrying the board link, so the
	// committed URL always belongs to the company's own site
	return &Discovery{
		RecruitsURL: pages.Normalize(p.URL),
		PageType:    classification.PageType,
		PostType:    classification.PostType,
	}
}

func (d *Discoverer) commit(ctx context.Context, companyID int, discovery *Discovery) error {

	err := d.companies.CommitDiscovery(ctx, companyID, discovery.RecruitsURL,
		discovery.PageType, discovery.PostType)
	if err != nil {
		return err
	}

	metrics.DiscoveriesCounter.WithLabelValues(string(discovery.PageType)).Inc()
	log.Infof("discovered careers page %v (%v/%v) for company %v",
		discovery.RecruitsURL, discovery.PageType, discovery.PostType, companyID)
	return nil
}

// nextFrontier collects unvisited same-company candidates from a page,
// best score first. Only the owner goroutine touches visited.
func (d *Discoverer) nextFrontier(p *web.Page, visited map[string]bool) []string {

	var frontier []string
	for _, candidate := range pages.Candidates(p) {
		if !pages.SameOrg(p.URL.Host, candidate.URL.Host) {
			continue
		}
		key := pages.Normalize(candidate.URL)
		if visited[key] {
			continue
		}
		visited[key] = true
		frontier = append(frontier, candidate.URL.String())
	}
	return frontier
}

type fetchResult struct {
	url  string
	page *web.Page
	err  error
}

func (d *Discoverer) fetchLevel(ctx context.Context, urls []string) <-chan fetchResult {

	results := make(chan fetchResult)
	semaphore := make(chan struct{}, d.concurrency)

	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			page, err := d.fetch(ctx, url)
			results <- fetchResult{url: url, page: page, err: err}
		}(url)
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func (d *Discoverer) fetch(ctx context.Context, url string) (*web.Page, error) {
	page, err := d.fetcher.Get(ctx, url)
	if err == nil {
		metrics.PagesFetchedCounter.Inc()
	}
	return page, err
}
