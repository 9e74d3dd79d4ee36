package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/cmd/catalog-chat/ui"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/assistant"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/config"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an interactive chat",
	Long:  "Load the catalog, run startup checks and open an interactive chat with the assistant.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	interactive := ui.IsTerminal(os.Stdout)
	console := ui.NewConsole(cmd.OutOrStdout(), noColor || !interactive)

	displayWelcomeBanner(console)

	rt, err := runStartupChecks(ctx, cfg, chatLogger(cfg, cmd.ErrOrStderr()), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}
	defer rt.Close()

	console.Success("Ready! %d products from %d suppliers loaded. Type /help for commands.",
		rt.Store.Products.Len(), rt.Store.Suppliers.Len())
	console.Newline()

	session := NewSession(rt.Service, console, cmd.InOrStdin(), SessionOptions{
		TypingDelay: cfg.Assistant.TypingDelay,
		Animate:     interactive,
		Logger:      rt.Logger.WithSession(uuid.NewString()),
	})
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	displayGoodbye(console)
	return nil
}

// chatLogger keeps log noise off the conversation unless --verbose is set.
func chatLogger(cfg *config.Config, output io.Writer) *observability.Logger {
	logCfg := *cfg
	logCfg.Observability.LogLevel = "warn"
	if verbose {
		logCfg.Observability.LogLevel = "debug"
	}
	logCfg.Observability.LogFormat = "console"
	return assistant.NewLogger(&logCfg, "catalog-chat", output)
}

func displayWelcomeBanner(console *ui.Console) {
	console.Newline()
	console.Box("Catalog Chat", "Welcome! Ask me about products, prices and suppliers.")
	console.Newline()
}

func runStartupChecks(ctx context.Context, cfg *config.Config, logger *observability.Logger, w io.Writer) (*assistant.Runtime, error) {
	bar := ui.NewProgressBar(w, 3, "Validating configuration")
	defer bar.Finish()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	bar.Step("Loading catalog")

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	rt, err := assistant.NewRuntime(loadCtx, cfg, logger)
	if err != nil {
		return nil, err
	}
	bar.Step("Running self-check")

	if err := selfCheck(rt); err != nil {
		_ = rt.Close()
		return nil, err
	}
	bar.Step("Ready")

	return rt, nil
}

// selfCheck confirms the catalog and rule table are usable before the first question.
func selfCheck(rt *assistant.Runtime) error {
	if rt.Store.Products.Len() == 0 {
		return errors.New("catalog has no products")
	}
	if len(rt.Service.Rules()) == 0 {
		return errors.New("no intent rules registered")
	}
	return nil
}

func displayGoodbye(console *ui.Console) {
	console.Newline()
	console.Success("Thank you for using Catalog Chat!")
	console.Newline()
}
