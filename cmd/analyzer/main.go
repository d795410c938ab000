// cmd/analyzer/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"resume-match-engine/internal/analysis/engine"
	"resume-match-engine/internal/analysis/reasoning"
	"resume-match-engine/internal/common/config"
	"resume-match-engine/internal/common/database"
	"resume-match-engine/internal/common/logger"
	"resume-match-engine/internal/common/observability"
	"resume-match-engine/internal/notify"
	"resume-match-engine/internal/store"

	ar "resume-match-engine/internal/workers/analysis/analyze-resume"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting resume match engine...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Assemble the analysis engine ---
	var verdictCache *redis.Client
	if redisClient != nil {
		verdictCache = redisClient.Client
	}
	evaluator := reasoning.NewAdapter(cfg.Reasoning, verdictCache, log)

	var writers []store.RecordWriter
	if pg != nil {
		writers = append(writers, store.NewAnalysisStore(pg.DB, log))
	}
	var indexer *store.Indexer
	if esClient != nil {
		indexer = store.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		writers = append(writers, indexer)
	}

	opts := []engine.Option{}
	if len(writers) > 0 {
		opts = append(opts, engine.WithSink(store.NewMultiSink(writers...)))
	}
	if cfg.Notifications.AWS.SES.Enabled || cfg.Notifications.AWS.SNS.Enabled {
		notifier, err := notify.New(cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("failed to create notifier", zap.Error(err))
		}
		opts = append(opts, engine.WithNotifier(notifier))
	}

	analysisEngine, err := engine.New(cfg, evaluator, log, opts...)
	if err != nil {
		zapLog.Fatal("failed to create analysis engine", zap.Error(err))
	}
	zapLog.Info("Analysis engine ready")

	// --- Optional Zeebe worker surface ---
	var zeebeClient zbc.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		handler := ar.NewHandler(ar.LoadConfig(), analysisEngine, log)
		startWorker(zeebeClient, ar.TaskType, cfg.Camunda, handler.Handle, zapLog)
	}

	// --- HTTP API, Health & Metrics Server ---
	srv := &http.Server{
		Addr:    cfg.HTTP.ListenAddress,
		Handler: newRouter(analysisEngine, indexer),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Resume match engine stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.CamundaConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
