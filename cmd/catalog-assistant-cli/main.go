// Package main provides the catalog assistant CLI entrypoint.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/config"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/storage"
	client "github.com/spherical-ai/spherical/libs/catalog-assistant/pkg/assistant"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const version = "0.1.0"

// cli holds state shared by every subcommand.
type cli struct {
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool
	noColor    bool

	cfg    *config.Config
	logger *observability.Logger
	ui     *UI
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "catalog-assistant-cli",
		Short: "Ask catalog questions and inspect the product catalog",
		Long: `catalog-assistant-cli answers product and supplier questions from the
terminal and exposes the catalog behind them.

Use this tool to:
- Ask questions locally or against a running API
- List products, suppliers and intent rules
- Compare two products
- Replay a file of questions
- Export the loaded catalog as YAML or CSV

All commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.cfg, err = config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
				ServiceName: "catalog-assistant-cli",
			})
			c.ui = NewUI(cmd.OutOrStdout(), c.outputJSON, c.noColor || !IsTerminal())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.ui != nil {
				c.ui.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&c.outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(c.newAskCmd())
	rootCmd.AddCommand(c.newProductsCmd())
	rootCmd.AddCommand(c.newSuppliersCmd())
	rootCmd.AddCommand(c.newIntentsCmd())
	rootCmd.AddCommand(c.newCompareCmd())
	rootCmd.AddCommand(c.newReplayCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newPurgeCacheCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return rootCmd
}

func (c *cli) runtime(ctx context.Context) (*assistant.Runtime, error) {
	rt, err := assistant.NewRuntime(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return rt, nil
}

func (c *cli) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newAskCmd creates the ask subcommand.
func (c *cli) newAskCmd() *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			question := strings.Join(args, " ")

			var answer assistant.Answer
			if remote != "" {
				sdk, err := client.NewClient(client.ClientConfig{BaseURL: remote})
				if err != nil {
					return err
				}
				resp, err := sdk.Ask(ctx, question)
				if err != nil {
					return fmt.Errorf("ask %s: %w", remote, err)
				}
				answer = assistant.Answer{
					Text:      resp.Response,
					Intent:    resp.Intent,
					Matched:   resp.Matched,
					Cached:    resp.Cached,
					LatencyMs: resp.LatencyMs,
				}
			} else {
				rt, err := c.runtime(ctx)
				if err != nil {
					return err
				}
				defer rt.Close()
				answer = rt.Service.Ask(ctx, question)
			}

			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), answer)
			}

			c.ui.Answer(answer.Text)
			if c.verbose {
				c.ui.KeyValue("Intent", answer.Intent)
				c.ui.KeyValue("Latency", fmt.Sprintf("%dms", answer.LatencyMs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a running catalog assistant API")
	return cmd
}

// newProductsCmd creates the products subcommand.
func (c *cli) newProductsCmd() *cobra.Command {
	var filter query.ProductFilter

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			lib := rt.Service.Library()
			products := lib.SearchProducts(filter)
			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), products)
			}

			rows := make([][]string, 0, len(products))
			for _, p := range products {
				supplier := ""
				if s, err := lib.SupplierFor(p); err == nil {
					supplier = s.Name
				}
				rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, p.Brand, format.Price(p.Price), p.Category, supplier})
			}
			c.ui.Table([]string{"ID", "Name", "Brand", "Price", "Category", "Supplier"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&filter.Brand, "brand", "", "filter by brand")
	cmd.Flags().Int64Var(&filter.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Int64Var(&filter.MaxPrice, "max-price", 0, "maximum price (0 for none)")
	cmd.Flags().BoolVar(&filter.SortByPrice, "sort-price", false, "sort by ascending price")
	return cmd
}

// newSuppliersCmd creates the suppliers subcommand.
func (c *cli) newSuppliersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suppliers",
		Short: "List catalog suppliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			suppliers := rt.Store.Suppliers.All()
			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), suppliers)
			}

			rows := make([][]string, 0, len(suppliers))
			for _, s := range suppliers {
				rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, s.ContactInfo, s.OfferedCategories()})
			}
			c.ui.Table([]string{"ID", "Name", "Contact", "Categories"}, rows)
			return nil
		},
	}
}

// newIntentsCmd creates the intents subcommand.
func (c *cli) newIntentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List intent rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			rules := rt.Service.Rules()
			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), rules)
			}

			rows := make([][]string, 0, len(rules))
			for _, r := range rules {
				rows = append(rows, []string{strconv.Itoa(r.Position), r.Name, r.Trigger})
			}
			c.ui.Table([]string{"#", "Intent", "Trigger"}, rows)
			return nil
		},
	}
}

// newCompareCmd creates the compare subcommand.
func (c *cli) newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <product-id> <product-id>",
		Short: "Compare two products side by side",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 2)
			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid product id %q", arg)
				}
				ids[i] = id
			}

			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Comparisons.Compare(cmd.Context(), ids[0], ids[1])
			if err != nil {
				return err
			}
			if rt.Audit != nil {
				if err := rt.Audit.LogComparison(cmd.Context(), ids[0], ids[1], len(result.Rows)); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to record comparison audit event")
				}
			}

			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), result)
			}

			rows := make([][]string, 0, len(result.Rows))
			for _, r := range result.Rows {
				rows = append(rows, []string{r.Feature, r.Primary, r.Secondary})
			}
			c.ui.Table([]string{"Feature", result.Primary.Name, result.Secondary.Name}, rows)
			return nil
		},
	}
}

// replayResult is one replayed question.
type replayResult struct {
	Question string           `json:"question"`
	Answer   assistant.Answer `json:"answer"`
}

// newReplayCmd creates the replay subcommand.
func (c *cli) newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Answer every question in a file, one per line",
		Long: `Replay reads questions from a file, one per line, and answers each in
order. Blank lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := readQuestions(args[0])
			if err != nil {
				return err
			}

			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			bar := c.ui.ProgressBar("Replaying", int64(len(questions)))
			results := make([]replayResult, 0, len(questions))
			answered := 0
			for _, q := range questions {
				answer := rt.Service.Ask(cmd.Context(), q)
				if answer.Text != intent.Fallback {
					answered++
				}
				results = append(results, replayResult{Question: q, Answer: answer})
				if bar != nil {
					bar.Increment()
				}
			}
			c.ui.Close()

			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), results)
			}

			for _, r := range results {
				c.ui.Section(r.Question)
				c.ui.Answer(r.Answer.Text)
			}
			c.ui.Newline()
			c.ui.Success("%d of %d questions answered", answered, len(results))
			if fallbacks := len(results) - answered; fallbacks > 0 {
				c.ui.Warning("%d questions fell back", fallbacks)
			}
			return nil
		},
	}
}

// newExportCmd creates the export subcommand.
func (c *cli) newExportCmd() *cobra.Command {
	var (
		exportFormat string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the loaded catalog to YAML or CSV",
		Long: `Export writes the loaded catalog in the same layout the yaml and csv
catalog sources read. YAML goes to --output or stdout; CSV needs --output
as a directory for products.csv and suppliers.csv.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			d := storage.DatasetFromStore(rt.Store)

			switch exportFormat {
			case "yaml":
				if output == "" {
					return storage.WriteYAML(cmd.OutOrStdout(), d)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				if err := storage.WriteYAML(f, d); err != nil {
					return err
				}
			case "csv":
				if output == "" {
					return fmt.Errorf("csv export requires --output directory")
				}
				if err := storage.SaveCSV(output, d); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s", exportFormat)
			}

			c.ui.Success("Exported %d products and %d suppliers to %s (%s)", len(d.Products), len(d.Suppliers), output, exportFormat)
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "export format (yaml, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (yaml) or directory (csv)")
	return cmd
}

// newPurgeCacheCmd creates the purge-cache subcommand.
func (c *cli) newPurgeCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-cache",
		Short: "Drop every cached answer",
		Long: `Purge-cache removes cached answers from the configured cache. With the
redis driver this clears answers shared by every API instance; cached
comparisons are left to expire.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Service.PurgeAnswers(cmd.Context()); err != nil {
				return err
			}
			c.ui.Success("Answer cache purged (%s)", c.cfg.Cache.Driver)
			return nil
		},
	}
}

// auditSubscriber is implemented by *cache.RedisClient.
type auditSubscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// newWatchCmd creates the watch subcommand.
func (c *cli) newWatchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream audit events published by running assistants",
		Long: `Watch subscribes to the audit channel and prints every event published
by assistants sharing the same redis. Requires cache.driver: redis and
audit.enabled. Stops on Ctrl+C or after --limit events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Driver != "redis" {
				return fmt.Errorf("watch requires the redis cache driver, got %q", c.cfg.Cache.Driver)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := c.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			sub, ok := rt.Cache.(auditSubscriber)
			if !ok {
				return fmt.Errorf("cache driver %q cannot subscribe", c.cfg.Cache.Driver)
			}
			return c.watch(ctx, cmd.OutOrStdout(), sub, c.cfg.Audit.Channel, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many events (0 means no limit)")
	return cmd
}

// watch prints audit events from channel until ctx ends, the subscription
// closes or limit events were shown.
func (c *cli) watch(ctx context.Context, w io.Writer, sub auditSubscriber, channel string, limit int) error {
	messages, unsubscribe, err := sub.Subscribe(ctx, channel)
	if err != nil {
		return err
	}
	defer unsubscribe()

	c.ui.Info("Watching %s", channel)
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-messages:
			if !ok {
				return nil
			}

			var event monitoring.AuditEvent
			if err := json.Unmarshal(data, &event); err != nil {
				c.logger.Warn().Err(err).Msg("Skipping malformed audit event")
				continue
			}

			if c.outputJSON {
				if err := json.NewEncoder(w).Encode(event); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(w, "%s  %s/%s  %s\n", event.OccurredAt.Format(time.TimeOnly), event.ResourceType, event.Action, payloadSummary(event.Payload))
			}

			seen++
			if limit > 0 && seen >= limit {
				return nil
			}
		}
	}
}

// payloadSummary renders payload as key=value pairs in key order.
func payloadSummary(payload map[string]interface{}) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}

// newVersionCmd creates the version subcommand.
func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.outputJSON {
				return c.writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog-assistant-cli v%s\n", version)
			return nil
		},
	}
}

// readQuestions reads non-empty, non-comment lines from path.
func readQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return questions, nil
}
