package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/jobscout/careers-crawler/internal/clients/gemini"
	"github.com/jobscout/careers-crawler/internal/clients/web"
	"github.com/jobscout/careers-crawler/internal/config"
	"github.com/jobscout/careers-crawler/internal/logger"
	"github.com/jobscout/careers-crawler/internal/metrics"
	"github.com/jobscout/careers-crawler/internal/repositories"
	"github.com/jobscout/careers-crawler/internal/services"
	log "github.com/sirupsen/logrus"
)

func runPipeline(ctx context.Context, cfg *config.Config, bus EventBus.Bus,
	companies *repositories.Companies, postings *repositories.Postings) func() {

	webClient := web.NewClient()
	webClient.SetRateLimit(cfg.Crawler.MaxRequestsPerSecond)
	if cfg.Crawler.UserAgent != "" {
		webClient.SetUserAgent(cfg.Crawler.UserAgent)
	}

	var aiService *services.AIService
	if cfg.Crawler.AIKey != "" {
		aiClient, err := gemini.NewClient(ctx, cfg.Crawler.AIKey, gemini.Model15Flash)
		if err != nil {
			log.Fatalf("can't create AI client: %v", err)
		}
		aiClient.SetMinuteRateLimit(cfg.Crawler.AiMaxRequestsPerMinute)
		aiClient.SetDayRateLimit(cfg.Crawler.AiMaxRequestsPerDay)
		aiService = services.NewAIService(aiClient)
	}

	discoverer, err := services.NewDiscoverer(webClient, companies,
		cfg.Crawler.MaxDepth, cfg.Crawler.Concurrency)
	if err != nil {
		log.Fatalf("can't create discoverer: %v", err)
	}

	var collector *services.Collector
	if aiService != nil {
		collector = services.NewCollector(bus, webClient, companies, postings, aiService)
	} else {
		collector = services.NewCollector(bus, webClient, companies, postings, nil)
	}

	cleaner, err := services.NewPostingsCleaner(postings, cfg.Crawler.StaleAfterDays)
	if err != nil {
		log.Fatalf("can't create postings cleaner: %v", err)
	}

	pipeline, err := services.NewPipeline(bus, companies, discoverer, collector,
		cfg.Crawler.DiscoverySchedule, cfg.Crawler.CollectionSchedule, cfg.Crawler.WorkerSlots)
	if err != nil {
		log.Fatalf("can't create pipeline: %v", err)
	}
	pipeline.Start()

	return func() {
		pipeline.Stop()
		cleaner.Stop()
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	companies := repositories.NewCompaniesRepository(dbContext.DB)
	postings := repositories.NewPostingsRepository(dbContext.DB)
	bus := EventBus.New()

	stopPipeline := runPipeline(ctx, cfg, bus, companies, postings)

	<-ctx.Done()

	log.Info("Shutting down services...")
	stopPipeline()
	log.Info("Services stopped.")
}
