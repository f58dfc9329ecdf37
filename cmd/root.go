package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"aiapi/internal/config"
	"aiapi/internal/credential"
	"aiapi/internal/request"
)

// app carries state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	cfgPath string
	cfg     config.Config
}

// Execute runs the CLI with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "aiapi",
		Short: "Compose prompts and build OpenAI-style API requests",
		Long: `aiapi composes structured prompts (instructions, few-shot examples,
chain-of-thought, prompt chains, graph-grounded reasoning) and turns them into
ready-to-send chat, completion and model-listing requests.

By default a request is printed as JSON with the credential redacted.
Pass --send to execute it against the configured provider.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return setupLogger(cmd.ErrOrStderr(), cfg.Log)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to YAML configuration file")

	root.AddCommand(
		newServeCmd(a),
		newComposeCmd(a),
		newChatCmd(a),
		newCompleteCmd(a),
		newGoalCmd(a),
		newModelsCmd(a),
		newEndpointCmd(a),
	)
	return root
}

func setupLogger(w io.Writer, cfg config.LogConfig) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func (a *app) newBuilder() (*request.Builder, error) {
	creds, err := credential.FromEnv(a.cfg.Provider.APIKeyEnv, a.cfg.Provider.Dotenv)
	if err != nil {
		return nil, err
	}
	if creds.Secret() == "" {
		slog.Warn("api key is empty", "env", a.cfg.Provider.APIKeyEnv)
	}

	builder, err := request.New(creds, a.cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("initialise request builder: %w", err)
	}
	return builder, nil
}
