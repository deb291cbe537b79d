package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	tgClient "tg_poller/clients/telegram"
	event_consumer "tg_poller/consumer/event-consumer"
	"tg_poller/events"
	"tg_poller/events/telegram"
	"tg_poller/queue"
	"tg_poller/storage"
	"tg_poller/storage/postgres"
	"tg_poller/storage/sqlite"
)

const (
	defaultTgBotHost  = "api.telegram.org"
	defaultSqlitePath = "storage.db"
	requestTimeout    = 5 * time.Second
	pollInterval      = time.Second
	sendInterval      = time.Second
	notifierInterval  = time.Minute
	flushTimeout      = 10 * time.Second
)

type config struct {
	token       string
	host        string
	polling     bool
	mode        event_consumer.Mode
	skipBacklog bool
	databaseURL string
	sqlitePath  string
}

func init() {
	// loads values from .env into the environment
	if err := godotenv.Load(); err != nil {
		log.Print("no .env file found, using the real environment")
	}
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("can't load config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatal("can't connect to storage: ", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Init(ctx); err != nil {
		log.Fatal("can't init storage: ", err)
	}

	client := tgClient.New(cfg.host, cfg.token, requestTimeout)

	fetcher := telegram.NewFetcher(client, s)
	restored, err := fetcher.Restore(ctx)
	if err != nil {
		log.Printf("[ERR] %s", err.Error())
	}
	if !restored && cfg.skipBacklog {
		if err := fetcher.SkipBacklog(ctx); err != nil {
			log.Printf("[ERR] %s", err.Error())
		}
	}

	consumer := event_consumer.New(fetcher, client,
		event_consumer.WithMode(cfg.mode),
		event_consumer.WithPolling(cfg.polling),
		event_consumer.WithInterval(pollInterval),
		event_consumer.WithQueue(queue.New(sendInterval)),
	)

	processor := telegram.NewProcessor(client, consumer)

	consumer.Init(processor.InitOptions)
	consumer.On(events.Text, processor.HandleText)
	consumer.On(events.Callback, processor.HandleCallback)

	if !cfg.polling {
		n := consumer.RunOnce(ctx)
		consumer.Wait()
		consumer.Flush(ctx)
		log.Printf("processed %d events, polling disabled", n)
		return
	}

	g, gctx := errgroup.WithContext(ctx)

	// the watcher stops when gctx is cancelled; consumer.Wait joins it
	if err := consumer.Watch(gctx, processor.Watch, notifierInterval); err != nil {
		log.Fatal("can't start watcher: ", err)
	}

	g.Go(func() error {
		return consumer.Start(gctx)
	})

	log.Print("service started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("service is stopped: ", err)
	}

	consumer.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if n := consumer.Flush(flushCtx); n > 0 {
		log.Printf("flushed %d queued messages", n)
	}

	log.Print("service stopped")
}

func loadConfig() (config, error) {
	cfg := config{
		host:        envOr("TG_BOT_HOST", defaultTgBotHost),
		databaseURL: os.Getenv("DATABASE_URL"),
		sqlitePath:  envOr("SQLITE_PATH", defaultSqlitePath),
	}

	token, err := mustEnv("TG_BOT_TOKEN")
	if err != nil {
		return config{}, err
	}
	cfg.token = token

	if cfg.polling, err = boolEnv("POLLING", true); err != nil {
		return config{}, err
	}
	if cfg.skipBacklog, err = boolEnv("SKIP_BACKLOG", true); err != nil {
		return config{}, err
	}
	if cfg.mode, err = event_consumer.ParseMode(os.Getenv("PROCESS")); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func newStorage(ctx context.Context, cfg config) (storage.Storage, error) {
	if cfg.databaseURL != "" {
		return postgres.New(ctx, cfg.databaseURL)
	}

	return sqlite.New(cfg.sqlitePath)
}

func mustEnv(envName string) (string, error) {
	env := strings.TrimSpace(os.Getenv(envName))
	if env == "" {
		return "", errors.New(envName + " is not specified")
	}
	return env, nil
}

func envOr(envName, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v
	}
	return fallback
}

func boolEnv(envName string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(envName))
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid " + envName + ": " + err.Error())
	}
	return b, nil
}
