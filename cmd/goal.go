package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"aiapi/internal/request"
)

func newGoalCmd(a *app) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "goal <goal text>",
		Short: "Ask the model to break a goal down into a task tree",
		Example: `  aiapi goal "become a lawyer in Ireland"
  aiapi goal --send learn to sail`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := strings.TrimSpace(strings.Join(args, " "))
			if goal == "" {
				return errors.New("goal must not be empty")
			}

			builder, err := a.newBuilder()
			if err != nil {
				return err
			}

			spec, err := builder.GoalTree(goal, request.ChatDefaults(a.cfg.Chat)...)
			if err != nil {
				return err
			}
			return a.emit(cmd, spec, send)
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "execute the request instead of printing it")
	return cmd
}
