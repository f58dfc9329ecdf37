package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aiapi/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var overridePort int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the request preview HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				if overridePort <= 0 || overridePort > 65535 {
					return fmt.Errorf("port override %d must be a valid TCP port", overridePort)
				}
				a.cfg.Server.Port = overridePort
			}

			builder, err := a.newBuilder()
			if err != nil {
				return err
			}

			srv, err := server.New(a.cfg, builder)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&overridePort, "port", "p", 0, "override server port from configuration")
	return cmd
}
