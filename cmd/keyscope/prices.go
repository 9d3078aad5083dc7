package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/keyscope/keyscope/internal/config"
	"github.com/keyscope/keyscope/internal/pricing"
	"github.com/spf13/cobra"
)

func newPricesCommand(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Manage the per-model price table",
		Long:  "List, set and delete per-model token prices. Prices are USD per million tokens and persist in a local SQLite database.",
	}

	cmd.AddCommand(newPricesListCommand(cfg))
	cmd.AddCommand(newPricesSetCommand(cfg))
	cmd.AddCommand(newPricesDeleteCommand(cfg))
	return cmd
}

func openPriceStore(cfg config.Config) (*pricing.Store, error) {
	path := cfg.PriceDBPath
	if path == "" {
		var err error
		path, err = pricing.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return pricing.OpenStore(path)
}

func newPricesListCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored model prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openPriceStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			table, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(table) == 0 {
				fmt.Println("no prices stored; add one with 'keyscope prices set <model> --prompt N --completion N'")
				return nil
			}

			models := make([]string, 0, len(table))
			for model := range table {
				models = append(models, model)
			}
			sort.Strings(models)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPROMPT/1M\tCOMPLETION/1M\tCACHE/1M")
			for _, model := range models {
				p := table[model]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					model, formatPrice(p.Prompt), formatPrice(p.Completion), formatPrice(p.Cache))
			}
			return w.Flush()
		},
	}
}

func newPricesSetCommand(cfg config.Config) *cobra.Command {
	var prompt, completion, cache float64

	cmd := &cobra.Command{
		Use:   "set <model>",
		Short: "Set the price for a model (USD per million tokens)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPriceStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			price := pricing.ModelPrice{Prompt: prompt, Completion: completion, Cache: cache}
			if err := store.Put(cmd.Context(), args[0], price); err != nil {
				return err
			}
			fmt.Printf("%s: prompt %s, completion %s, cache %s per 1M tokens\n",
				args[0], formatPrice(prompt), formatPrice(completion), formatPrice(cache))
			return nil
		},
	}

	cmd.Flags().Float64Var(&prompt, "prompt", 0, "USD per million prompt tokens")
	cmd.Flags().Float64Var(&completion, "completion", 0, "USD per million completion tokens")
	cmd.Flags().Float64Var(&cache, "cache", 0, "USD per million cached prompt tokens")
	return cmd
}

func newPricesDeleteCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <model>",
		Short: "Remove a model from the price table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPriceStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("%s removed\n", args[0])
			return nil
		},
	}
}

func formatPrice(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
