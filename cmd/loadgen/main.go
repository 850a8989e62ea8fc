package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/podium/internal/loadgen"
	"github.com/okian/podium/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumCustomers = 1000
	defaultNumUpdates   = 10000
	defaultBatchSize    = 100
	defaultTopN         = 50
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numCustomers = flag.Int("customers", defaultNumCustomers, "Number of distinct customers")
		numUpdates   = flag.Int("updates", defaultNumUpdates, "Number of score updates to generate and submit")
		batchSize    = flag.Int("batch", defaultBatchSize, "Updates per POST /updates request")
		topN         = flag.Int("top", defaultTopN, "Number of top entries to fetch and verify")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:      *baseURL,
		NumCustomers: *numCustomers,
		NumUpdates:   *numUpdates,
		BatchSize:    *batchSize,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		Verbose:      *verbose,
	}

	if err := loadgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("load test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
