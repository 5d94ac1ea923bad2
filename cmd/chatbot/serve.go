package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"banking-chatbot/internal/api"
	"banking-chatbot/internal/chatbot/classifier"
	"banking-chatbot/internal/chatbot/escalation"
	"banking-chatbot/internal/chatbot/predictor"
	"banking-chatbot/internal/chatbot/responder"
	"banking-chatbot/internal/chatbot/session"
	"banking-chatbot/internal/common/config"
	"banking-chatbot/internal/common/observability"
)

func newServeCmd() *cobra.Command {
	var allowDegraded bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket front ends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			zapLog, log := newLogger(cfg)
			defer zapLog.Sync() //nolint:errcheck

			zapLog.Info("Starting chatbot...", zap.String("environment", cfg.App.Environment))

			spanExporter, err := observability.NewSpanExporter(cfg.Tracing)
			if err != nil {
				zapLog.Error("span exporter unavailable", zap.Error(err))
				return err
			}
			obsOpts := []observability.Option{observability.WithSampleRatio(cfg.Tracing.SampleRatio)}
			if spanExporter != nil {
				obsOpts = append(obsOpts, observability.WithSpanExporter(spanExporter))
			}
			obs := observability.New(cfg.App.Name, log, obsOpts...)
			defer obs.Shutdown()

			var cls classifier.IntentClassifier
			adapter, err := loadModel(cfg, log)
			switch {
			case err == nil:
				cls = adapter
			case allowDegraded:
				zapLog.Error("model load failed, serving without a model", zap.Error(err))
			default:
				zapLog.Error("model load failed", zap.Error(err))
				return err
			}

			store, closeStore, err := newSessionStore(ctx, cfg, zapLog)
			if err != nil {
				zapLog.Error("session store unavailable", zap.Error(err))
				return err
			}
			defer closeStore()

			notifier, err := newNotifier(ctx, cfg)
			if err != nil {
				zapLog.Error("escalation notifier unavailable", zap.Error(err))
				return err
			}
			dispatcher := escalation.NewDispatcher(notifier, log)

			pred := predictor.New(cls,
				predictor.WithEscalation(dispatcher),
				predictor.WithObservability(obs),
				predictor.WithLogger(log),
			)
			resp := responder.New(cls, store,
				responder.WithEscalation(dispatcher),
				responder.WithObservability(obs),
				responder.WithLogger(log),
			)

			server := api.New(cfg.Server, pred, resp, log)
			sweeper := session.NewSweeper(store,
				config.GetDuration(cfg.Session.IdleTimeout),
				config.GetDuration(cfg.Session.SweepInterval),
				log,
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Run(gctx) })
			g.Go(func() error { return sweeper.Run(gctx) })

			err = g.Wait()
			zapLog.Info("Chatbot stopped")
			return err
		},
	}
	cmd.Flags().BoolVar(&allowDegraded, "allow-degraded", false,
		"keep serving when the model fails to load; prediction requests then fail with 500")
	return cmd
}
