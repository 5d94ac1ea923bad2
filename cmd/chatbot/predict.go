package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"banking-chatbot/internal/chatbot/predictor"
	"banking-chatbot/internal/chatbot/responder"
	"banking-chatbot/internal/chatbot/session"
	"banking-chatbot/internal/common/logger"
)

func newPredictCmd() *cobra.Command {
	var (
		messages  []string
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Answer messages offline using the configured model",
		Example: `  chatbot predict -m "How do I transfer money?"
  chatbot predict --session demo -m "I have a card problem" -m "report a problem"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(messages) == 0 {
				return fmt.Errorf("at least one --message is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			zapLog, log := newLogger(cfg)
			defer zapLog.Sync() //nolint:errcheck
			log = logger.Component(log, "cli")

			adapter, err := loadModel(cfg, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sessionID != "" {
				resp := responder.New(adapter, session.NewMemoryStore(), responder.WithLogger(log))
				for _, m := range messages {
					fmt.Fprintf(out, "> %s\n%s\n", m, resp.GenerateResponse(cmd.Context(), m, sessionID))
				}
				return nil
			}

			pred := predictor.New(adapter, predictor.WithLogger(log))
			enc := json.NewEncoder(out)
			for _, m := range messages {
				p, err := pred.Predict(cmd.Context(), m)
				if err != nil {
					return err
				}
				if err := enc.Encode(p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&messages, "message", "m", nil, "message to answer (repeatable)")
	cmd.Flags().StringVar(&sessionID, "session", "", "answer messages in order within one conversation")
	return cmd
}
