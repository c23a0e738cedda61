package ingest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/model"
)

// Sink receives freshly ingested pending articles.
type Sink interface {
	Ingest(ctx context.Context, a model.Article) error
}

type Worker struct {
	queue   Queue
	sink    Sink
	logger  *zap.Logger
	scraper Scraper
	feeds   FeedFetcher
	timeout time.Duration
	now     func() time.Time
}

func NewWorker(queue Queue, sink Sink, logger *zap.Logger, timeout time.Duration) *Worker {
	return &Worker{
		queue:   queue,
		sink:    sink,
		logger:  logger,
		scraper: &DefaultScraper{},
		feeds:   NewFeedFetcher(),
		timeout: timeout,
		now:     time.Now,
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started. Waiting for jobs...")

	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Worker shutting down")
				return
			}
			w.logger.Error("Queue error", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	logger := w.logger.With(zap.String("kind", string(job.Kind)), zap.String("url", job.URL))
	logger.Info("Processing started")

	var articles []model.Article
	switch job.Kind {
	case JobPage:
		page, err := w.scraper.Scrape(job.URL, w.timeout)
		if err != nil {
			logger.Error("Scraping failed", zap.Error(err))
			return
		}
		articles = append(articles, fromPage(job.URL, page, w.now()))
	case JobFeed:
		fctx, cancel := context.WithTimeout(ctx, w.timeout)
		feed, err := w.feeds.Fetch(fctx, job.URL)
		cancel()
		if err != nil {
			logger.Error("Feed fetch failed", zap.Error(err))
			return
		}
		now := w.now()
		for _, item := range feed.Items {
			if item == nil || (item.Link == "" && item.GUID == "") {
				continue
			}
			articles = append(articles, fromFeedItem(feed, item, now))
		}
	default:
		logger.Error("Unknown job kind")
		return
	}

	added := 0
	for _, a := range articles {
		if err := w.sink.Ingest(ctx, a); err != nil {
			if errors.Is(err, model.ErrDuplicate) {
				logger.Debug("Skipping duplicate", zap.String("article_id", a.ID))
				continue
			}
			logger.Error("Failed to save article", zap.String("article_id", a.ID), zap.Error(err))
			continue
		}
		added++
	}

	logger.Info("Ingestion complete", zap.Int("found", len(articles)), zap.Int("added", added))
}
