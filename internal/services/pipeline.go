package services

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobscout/careers-crawler/internal/entities"
	"github.com/jobscout/careers-crawler/internal/events"
	"github.com/jobscout/careers-crawler/internal/logger"
	"github.com/jobscout/careers-crawler/internal/metrics"
	"github.com/jobscout/careers-crawler/internal/repositories"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type companyRepository interface {
	GetDiscoverable(ctx context.Context, pageSize int, pageNum int) ([]entities.Company, error)
	GetCollectable(ctx context.Context, pageSize int, pageNum int) ([]entities.Company, error)
}

// Pipeline schedules the two crawl cycles: discovery finds careers
// pages for companies that only have a homepage, collection extracts
// postings from companies with a confirmed page. Companies within a
// cycle run in parallel worker slots; deleting a company cancels its
// in-flight run.
type Pipeline struct {
	bus             EventBus.Bus
	companies       companyRepository
	discoverer      *Discoverer
	collector       *Collector
	cron            *cron.Cron
	workerSlots     int
	companyContexts sync.Map
}

func NewPipeline(bus EventBus.Bus, companies companyRepository, discoverer *Discoverer,
	collector *Collector, discoverySchedule string, collectionSchedule string,
	workerSlots int) (*Pipeline, error) {

	if workerSlots <= 0 {
		return nil, errors.New("worker slots must be greater than zero")
	}

	p := &Pipeline{
		bus:         bus,
		companies:   companies,
		discoverer:  discoverer,
		collector:   collector,
		cron:        cron.New(),
		workerSlots: workerSlots,
	}

	if err := bus.Subscribe(events.CompanyDeletedTopic, p.onCompanyDeletedEvent); err != nil {
		return nil, err
	}

	if _, err := p.cron.AddFunc(discoverySchedule, p.RunDiscoveryCycle); err != nil {
		return nil, errors.Wrap(err, "invalid discovery schedule")
	}
	if _, err := p.cron.AddFunc(collectionSchedule, p.RunCollectionCycle); err != nil {
		return nil, errors.Wrap(err, "invalid collection schedule")
	}

	return p, nil
}

func (p *Pipeline) Start() {
	p.cron.Start()
	log.Info("crawl pipeline started")
}

func (p *Pipeline) Stop() {
	p.cron.Stop()
}

func (p *Pipeline) RunDiscoveryCycle() {

	startTime := time.Now()
	log.Infof("running discovery cycle at %v", startTime)

	companies := p.collectBatch(p.companies.GetDiscoverable)
	handled := p.runCompanies(companies, func(ctx context.Context, company entities.Company) error {
		_, err := p.discoverer.DiscoverCompany(ctx, company)
		return err
	})

	metrics.CycleDuration.WithLabelValues("discovery").Observe(time.Since(startTime).Seconds())
	log.Infof("discovery cycle handled %v companies in %v", handled, time.Since(startTime))
}

func (p *Pipeline) RunCollectionCycle() {

	startTime := time.Now()
	log.Infof("running collection cycle at %v", startTime)

	companies := p.collectBatch(p.companies.GetCollectable)
	handled := p.runCompanies(companies, p.collector.CollectCompany)

	metrics.CycleDuration.WithLabelValues("collection").Observe(time.Since(startTime).Seconds())
	log.Infof("collection cycle handled %v companies in %v", handled, time.Since(startTime))
}

// collectBatch pages through the repository before any company runs.
// Runs change which companies match the query, so paging and processing
// interleaved would skip rows.
func (p *Pipeline) collectBatch(
	get func(ctx context.Context, pageSize int, pageNum int) ([]entities.Company, error)) []entities.Company {

	const pageSize = 20
	var batch []entities.Company

	for pageNum := 1; ; pageNum++ {
		companies, err := get(context.Background(), pageSize, pageNum)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to get companies: %v", err)
			break
		}
		if len(companies) == 0 {
			break
		}
		batch = append(batch, companies...)
	}
	return batch
}

func (p *Pipeline) runCompanies(companies []entities.Company,
	run func(ctx context.Context, company entities.Company) error) int {

	semaphore := make(chan struct{}, p.workerSlots)
	var wg sync.WaitGroup

	for _, company := range companies {

		companyCtx, cancel := context.WithCancel(context.Background())
		p.companyContexts.Store(company.ID, cancel)

		wg.Add(1)
		go func(company entities.Company) {
			defer wg.Done()
			defer p.companyContexts.Delete(company.ID)
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			p.handleRunError(company, run(companyCtx, company))
		}(company)
	}

	wg.Wait()
	return len(companies)
}

func (p *Pipeline) handleRunError(company entities.Company, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrExternalPlatform):
		//already logged and committed by the guard
	case errors.Is(err, repositories.ErrCompanyGone):
		log.Infof("company %v was deleted mid-run", company.ID)
	case errors.Is(err, context.Canceled):
		log.Infof("run canceled for company %v", company.ID)
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFetch).
			Errorf("run failed for company %v: %v", company.ID, err)
	}
}

func (p *Pipeline) onCompanyDeletedEvent(event events.CompanyDeleted) {
	if cancel, ok := p.companyContexts.Load(event.CompanyID); ok {
		cancel.(context.CancelFunc)()
		p.companyContexts.Delete(event.CompanyID)
	}
}
