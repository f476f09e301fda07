package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type StalePostingRepository interface {
	MarkStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostingsCleaner marks postings inactive once they have gone unseen
// for long enough. Re-sighting a posting during collection flips it
// back to active.
type PostingsCleaner struct {
	postings         StalePostingRepository
	cron             *cron.Cron
	staleAfterInDays int
}

func NewPostingsCleaner(postings StalePostingRepository, staleAfterInDays int) (*PostingsCleaner, error) {

	if staleAfterInDays <= 0 {
		return nil, errors.New("stale after days must be greater than zero")
	}

	pc := &PostingsCleaner{
		postings:         postings,
		cron:             cron.New(),
		staleAfterInDays: staleAfterInDays,
	}

	_, err := pc.cron.AddFunc("0 0 * * *", pc.markStalePostings)
	if err != nil {
		return nil, err
	}

	pc.cron.Start()
	log.Infof("postings cleaner started, stale after days: %d", pc.staleAfterInDays)
	return pc, nil
}

func (pc *PostingsCleaner) Stop() {
	pc.cron.Stop()
}

func (pc *PostingsCleaner) markStalePostings() {
	cutoff := time.Now().Add(-time.Duration(pc.staleAfterInDays) * 24 * time.Hour)
	rowsAffected, err := pc.postings.MarkStale(context.Background(), cutoff)
	if err != nil {
		log.Errorf("Failed to mark stale postings: %v", err)
	} else {
		log.Infof("Stale postings marked inactive at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
