package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/model"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/predictor"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/telemetry"
	"github.com/spf13/cobra"
)

const (
	defaultModelPath = "models/phishing_model.json"
	defaultWorkers   = 8
)

type scoreOptions struct {
	modelPath string
	workers   int
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score [url...]",
		Short: "Score URLs with a model artifact",
		Long: `Scores the URLs given as arguments, or one per line on stdin, and prints
one JSON object per URL in input order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			urls := args
			if len(urls) == 0 {
				if urls, err = readURLs(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			m, err := model.Load(opts.modelPath)
			if err != nil {
				return err
			}
			log.Debug("Model loaded",
				logger.String("path", opts.modelPath),
				logger.String("version", m.Metadata().Version),
			)

			svc := predictor.NewService(m, telemetry.NewProvider(), log, opts.workers)
			results := svc.PredictBatch(cmd.Context(), urls)

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, item := range results {
				if err := enc.Encode(item); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.modelPath, "model", modelPathFromEnv(), "path to the model artifact")
	cmd.Flags().IntVar(&opts.workers, "workers", defaultWorkers, "concurrent scoring goroutines")

	return cmd
}

func modelPathFromEnv() string {
	if path := os.Getenv("PHISHING_MODEL_PATH"); path != "" {
		return path
	}
	return defaultModelPath
}
