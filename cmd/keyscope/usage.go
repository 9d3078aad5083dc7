package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/keyscope/keyscope/internal/config"
	"github.com/keyscope/keyscope/internal/identity"
	"github.com/keyscope/keyscope/internal/pricing"
	"github.com/keyscope/keyscope/internal/stats"
	"github.com/keyscope/keyscope/internal/usage"
	"github.com/spf13/cobra"
)

func newUsageCommand(cfg config.Config) *cobra.Command {
	var (
		payloadPath string
		keysPath    string
		sourceRaw   string
		authIndex   string
		window      int
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Summarize per-key usage from a telemetry payload",
		Long:  "Flatten the usage payload into normalized events and print per-key health, trailing rates and billed cost. Sources are fingerprinted; raw keys never appear in the output.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if payloadPath == "" {
				return fmt.Errorf("no payload path; pass --payload or set payload_path in %s", config.ConfigPath())
			}

			norm := identity.NewNormalizer(nil, nil)
			collector := usage.NewCollector(norm)

			filter := stats.StatusFilter{AuthIndex: authIndex}
			if sourceRaw != "" {
				filter.Source = norm.Normalize(sourceRaw)
			}

			prices, err := loadPrices(cmd.Context(), cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: price table unavailable: %v\n", err)
			}

			keyConfigs, err := loadKeyConfigs(keysPath)
			if err != nil {
				return err
			}

			render := func() {
				payload, err := usage.LoadPayload(payloadPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					return
				}
				events := collector.Collect(payload)
				printUsageReport(norm, events, filter, window, prices, keyConfigs)
			}

			render()
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			debounce := time.Duration(cfg.RefreshDebounceMillis) * time.Millisecond
			return usage.WatchPayload(ctx, payloadPath, debounce, render)
		},
	}

	cmd.Flags().StringVar(&payloadPath, "payload", cfg.PayloadPath, "path to the usage payload JSON document")
	cmd.Flags().StringVar(&keysPath, "keys", "", "optional JSON file of stored provider key configs to join against usage")
	cmd.Flags().StringVar(&sourceRaw, "source", "", "only count events logged under this source (raw key, masked form or label)")
	cmd.Flags().StringVar(&authIndex, "auth-index", "", "only count events logged under this auth index")
	cmd.Flags().IntVar(&window, "window", cfg.RateWindowMinutes, "trailing window in minutes for rpm/tpm")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reprint on payload changes")
	return cmd
}

func loadPrices(ctx context.Context, cfg config.Config) (pricing.Table, error) {
	path := cfg.PriceDBPath
	if path == "" {
		var err error
		path, err = pricing.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := pricing.OpenStore(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.List(ctx)
}

func loadKeyConfigs(path string) ([]identity.ProviderKeyConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key configs: %w", err)
	}
	var cfgs []identity.ProviderKeyConfig
	if err := json.Unmarshal(data, &cfgs); err != nil {
		return nil, fmt.Errorf("parsing key configs %s: %w", path, err)
	}
	return cfgs, nil
}

func printUsageReport(
	norm *identity.Normalizer,
	events []usage.Event,
	filter stats.StatusFilter,
	window int,
	prices pricing.Table,
	keyConfigs []identity.ProviderKeyConfig,
) {
	keyStats := stats.Aggregate(events)
	status := stats.NewBucketer().BucketStatus(events, filter)
	rates := stats.NewRateCalculator().RecentRates(window, events)

	fmt.Printf("status  %s  %.1f%% ok (%d ok / %d failed, last %s)\n",
		statusGlyphs(status.Buckets),
		status.SuccessRate,
		status.TotalSuccess,
		status.TotalFailure,
		stats.BucketCount*stats.BucketSize,
	)
	fmt.Printf("rates   %.2f req/min  %.1f tok/min  (%d requests, %d tokens in %dm)\n",
		rates.RPM, rates.TPM, rates.RequestCount, rates.TokenCount, rates.WindowMinutes)
	if len(prices) > 0 {
		fmt.Printf("spend   $%.4f across %d events\n", pricing.TotalCost(events, prices), len(events))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nSOURCE\tOK\tFAILED")
	for _, source := range sortedSources(keyStats) {
		c := keyStats.BySource[source]
		fmt.Fprintf(w, "%s\t%d\t%d\n", source, c.Success, c.Failure)
	}
	w.Flush()

	if len(keyStats.ByAuthIndex) > 0 {
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nAUTH INDEX\tOK\tFAILED")
		indexes := make([]string, 0, len(keyStats.ByAuthIndex))
		for idx := range keyStats.ByAuthIndex {
			indexes = append(indexes, idx)
		}
		sort.Strings(indexes)
		for _, idx := range indexes {
			c := keyStats.ByAuthIndex[idx]
			fmt.Fprintf(w, "%s\t%d\t%d\n", idx, c.Success, c.Failure)
		}
		w.Flush()
	}

	if len(keyConfigs) > 0 {
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nCONFIGURED KEY\tMATCHED AS\tOK\tFAILED")
		for _, joined := range stats.JoinConfigs(norm, keyConfigs, keyStats) {
			matched := string(joined.Matched)
			if matched == "" {
				matched = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
				describeKeyConfig(norm, joined.Config), matched,
				joined.Counts.Success, joined.Counts.Failure)
		}
		w.Flush()
	}
}

func sortedSources(keyStats stats.KeyStats) []identity.Identity {
	sources := make([]identity.Identity, 0, len(keyStats.BySource))
	for source := range keyStats.BySource {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

func describeKeyConfig(norm *identity.Normalizer, cfg identity.ProviderKeyConfig) string {
	if cfg.Prefix != "" {
		return cfg.Prefix
	}
	if cfg.APIKey != "" {
		return norm.Mask(cfg.APIKey)
	}
	return "-"
}

func statusGlyphs(buckets []stats.BucketState) string {
	glyphs := make([]byte, len(buckets))
	for i, state := range buckets {
		switch state {
		case stats.BucketSuccess:
			glyphs[i] = '#'
		case stats.BucketFailure:
			glyphs[i] = '!'
		case stats.BucketMixed:
			glyphs[i] = '~'
		default:
			glyphs[i] = '.'
		}
	}
	return string(glyphs)
}
