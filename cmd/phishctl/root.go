package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const maxLineBytes = 1 << 20

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "phishctl",
		Short:         "Phishing URL feature extraction and scoring",
		Long:          `Extract model features from URLs and score them with a phishing model artifact.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(newExtractCmd(opts))
	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newLogger builds a console logger on stderr so stdout stays machine-readable.
func (o *rootOptions) newLogger() (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       o.logLevel,
		Format:      "console",
		OutputPaths: []string{"stderr"},
	})
}

// openInput returns stdin for no argument or "-", otherwise the named file.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", args[0], err)
	}
	return f, nil
}

// readURLs returns one URL per non-blank line, trimmed.
func readURLs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return urls, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phishctl version %s\n", version)
		},
	}
}
