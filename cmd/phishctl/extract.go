package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/features"
	"github.com/spf13/cobra"
)

// csvHeader matches the training data layout.
var csvHeader = []string{
	"url",
	"url_length",
	"num_special_chars",
	"subdomain",
	"domain",
	"suffix",
	"is_ip",
	"subdomain_length",
	"has_https",
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Write the feature CSV for a list of URLs",
		Long: `Reads one URL per line from a file or stdin and writes a CSV row of
features for each. Absent domain parts are written as empty cells.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			urls, err := readURLs(in)
			if err != nil {
				return err
			}

			if err := writeFeatureCSV(cmd.OutOrStdout(), urls); err != nil {
				return err
			}
			log.Debug("Features extracted", logger.Int("urls", len(urls)))
			return nil
		},
	}
}

func writeFeatureCSV(w io.Writer, urls []string) error {
	out := csv.NewWriter(w)
	if err := out.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, u := range urls {
		if err := out.Write(featureRow(features.Extract(u))); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

func featureRow(v features.Vector) []string {
	return []string{
		v.URL,
		strconv.Itoa(v.URLLength),
		strconv.Itoa(v.NumSpecialChars),
		deref(v.Subdomain),
		deref(v.Domain),
		deref(v.Suffix),
		strconv.Itoa(v.IsIP),
		strconv.Itoa(v.SubdomainLength),
		strconv.Itoa(v.HasHTTPS),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
