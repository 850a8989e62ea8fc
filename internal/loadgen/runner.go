package loadgen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/podium/pkg/logger"
)

// Drain polling constants.
const (
	drainPollInterval = 100 * time.Millisecond
	drainTimeout      = 2 * time.Minute
)

// Run executes a complete load generation pass: health check, submit,
// drain, verify.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting leaderboard load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("customers", cfg.NumCustomers),
		logger.Int("updates", cfg.NumUpdates),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN))

	client := newHTTPClient(cfg.Timeout)

	if err := client.checkHealth(ctx, cfg.BaseURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	updates, totals := generateUpdates(cfg)
	stats.UpdatesGenerated = len(updates)
	log.Info(ctx, "generated updates", logger.Int("count", len(updates)))

	if err := submitUpdates(ctx, cfg, client, updates, stats); err != nil {
		return fmt.Errorf("update submission failed: %w", err)
	}

	if err := waitForDrain(ctx, cfg, client); err != nil {
		return fmt.Errorf("queue drain failed: %w", err)
	}

	if err := verifyRanking(ctx, cfg, client, totals, stats); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "load test completed successfully")
	return nil
}

// submitUpdates posts all batches concurrently using a worker pool.
func submitUpdates(ctx context.Context, cfg *Config, client *httpClient, updates []Update, stats *Stats) error {
	chunks := batches(updates, cfg.BatchSize)
	logger.Get().Info(ctx, "submitting updates",
		logger.Int("batches", len(chunks)),
		logger.Int("workers", cfg.Workers))

	var (
		accepted   int64
		duplicates int64
		rejected   int64
		failed     int64
	)

	batchChan := make(chan []Update, cfg.Workers)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result, err := client.postBatch(ctx, cfg.BaseURL, batch)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						logger.Get().Warn(ctx, "batch submission failed", logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&accepted, int64(result.Accepted))
				atomic.AddInt64(&duplicates, int64(result.Duplicates))
				atomic.AddInt64(&rejected, int64(result.Rejected))
			}
		}()
	}

	for _, batch := range chunks {
		select {
		case <-ctx.Done():
			break
		case batchChan <- batch:
		}
	}
	close(batchChan)
	wg.Wait()

	stats.UpdatesAccepted = int(atomic.LoadInt64(&accepted))
	stats.UpdatesDuplicate = int(atomic.LoadInt64(&duplicates))
	stats.UpdatesRejected = int(atomic.LoadInt64(&rejected))
	stats.BatchesFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "update submission completed",
		logger.Int("accepted", stats.UpdatesAccepted),
		logger.Int("duplicates", stats.UpdatesDuplicate),
		logger.Int("rejected", stats.UpdatesRejected),
		logger.Int("failedBatches", stats.BatchesFailed))
	return nil
}

// waitForDrain polls GET /stats until the update queue is empty.
func waitForDrain(ctx context.Context, cfg *Config, client *httpClient) error {
	logger.Get().Info(ctx, "waiting for the update queue to drain")

	deadline := time.Now().Add(drainTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}

		n, err := client.queueLength(ctx, cfg.BaseURL)
		if err != nil {
			return err
		}
		if n == 0 {
			// One extra poll interval lets in-flight workers publish.
			time.Sleep(drainPollInterval)
			logger.Get().Info(ctx, "update queue drained")
			return nil
		}
		if cfg.Verbose {
			logger.Get().Debug(ctx, "queue still draining", logger.Int("pending", n))
		}
	}
	return fmt.Errorf("queue did not drain within %s", drainTimeout)
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var updatesPerSecond float64
	if stats.Duration > 0 {
		updatesPerSecond = float64(stats.UpdatesAccepted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("updatesGenerated", stats.UpdatesGenerated),
		logger.Int("updatesAccepted", stats.UpdatesAccepted),
		logger.Int("updatesDuplicate", stats.UpdatesDuplicate),
		logger.Int("updatesRejected", stats.UpdatesRejected),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("entriesVerified", stats.EntriesVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("updatesPerSecond", updatesPerSecond))
}
