package cmd

import "github.com/spf13/cobra"

func newModelsCmd(a *app) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Build the model-listing request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := a.newBuilder()
			if err != nil {
				return err
			}

			spec, err := builder.Models()
			if err != nil {
				return err
			}
			return a.emit(cmd, spec, send)
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "execute the request instead of printing it")
	return cmd
}
