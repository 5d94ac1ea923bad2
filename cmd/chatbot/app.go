package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"banking-chatbot/internal/chatbot/catalog"
	"banking-chatbot/internal/chatbot/classifier"
	"banking-chatbot/internal/chatbot/escalation"
	"banking-chatbot/internal/chatbot/session"
	awsclient "banking-chatbot/internal/common/aws"
	"banking-chatbot/internal/common/config"
	"banking-chatbot/internal/common/database"
	"banking-chatbot/internal/common/logger"
)

const (
	connectRetries = 10
	connectDelay   = 2 * time.Second
)

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) (*zap.Logger, logger.Logger) {
	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(zap.String("service", cfg.App.Name), zap.String("version", cfg.App.Version))
	return zapLog, logger.NewZapAdapter(zapLog)
}

// loadModel reads the classifier artifacts and cross-checks their category
// names against the response catalog.
func loadModel(cfg *config.Config, log logger.Logger) (*classifier.Adapter, error) {
	adapter, err := classifier.Load(classifier.Paths{
		Vectorizer: cfg.Model.VectorizerPath(),
		Model:      cfg.Model.ClassifierPath(),
		Mappings:   cfg.Model.MappingsPath(),
	}, log)
	if err != nil {
		return nil, err
	}
	catalog.CrossCheck(adapter.Categories(), logger.Component(log, "catalog"))
	return adapter, nil
}

// newSessionStore opens the configured backend. The returned func releases
// any connection it holds.
func newSessionStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (session.Store, func(), error) {
	idle := config.GetDuration(cfg.Session.IdleTimeout)

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb, err := database.ConnectRedis(ctx, cfg.Database.Redis, connectRetries, connectDelay, zapLog)
		if err != nil {
			return nil, nil, err
		}
		zapLog.Info("Redis connected successfully")
		return session.NewRedisStore(rdb.Client, cfg.Session.KeyPrefix, idle), func() { _ = rdb.Close() }, nil

	case config.SessionBackendPostgres:
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres, connectRetries, connectDelay, zapLog)
		if err != nil {
			return nil, nil, err
		}
		store := session.NewPostgresStore(pg.DB)
		if err := store.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		return store, func() { _ = pg.Close() }, nil

	case config.SessionBackendMemory:
		return session.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("session backend %q is not supported", cfg.Session.Backend)
}

func newNotifier(ctx context.Context, cfg *config.Config) (escalation.Notifier, error) {
	if !cfg.Escalation.Enabled {
		return escalation.Noop{}, nil
	}
	client, err := awsclient.NewSNSClient(ctx, cfg.Escalation.Region)
	if err != nil {
		return nil, err
	}
	return escalation.NewSNSNotifier(client, cfg.Escalation.TopicARN, config.GetDuration(cfg.Escalation.Timeout)), nil
}
