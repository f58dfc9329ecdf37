package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aiapi/internal/endpoint"
)

func newEndpointCmd(a *app) *cobra.Command {
	var version uint

	cmd := &cobra.Command{
		Use:   "endpoint <kind>",
		Short: "Print the URL a request kind resolves to",
		Long: `Print the URL a request kind resolves to against the configured base URL.

Kinds: legacy-completion (completion, davinci), chat-completion (chat),
model-listing (models).`,
		Example: `  aiapi endpoint chat
  aiapi endpoint models --version 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := endpoint.ParseKind(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("version") {
				version = a.cfg.Provider.APIVersion
			}

			u, err := endpoint.NewResolver(a.cfg.Provider.BaseURL).Resolve(kind, version)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u.String())
			return err
		},
	}
	cmd.Flags().UintVar(&version, "version", endpoint.DefaultVersion, "API version to resolve against (defaults to provider.api_version)")
	return cmd
}
