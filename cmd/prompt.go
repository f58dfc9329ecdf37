package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aiapi/internal/endpoint"
	"aiapi/internal/models"
	"aiapi/internal/prompt"
	"aiapi/internal/request"
)

type promptFlags struct {
	file        string
	instruction string
}

func (f *promptFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "YAML prompt definition")
	cmd.Flags().StringVarP(&f.instruction, "instruction", "i", "", "plain instruction, used when no file is given")
}

func (f *promptFlags) load() (prompt.Prompt, error) {
	switch {
	case f.file != "" && f.instruction != "":
		return prompt.Prompt{}, errors.New("use either --file or --instruction, not both")
	case f.file != "":
		return prompt.LoadFile(f.file)
	case f.instruction != "":
		return prompt.Prompt{Instruction: f.instruction}, nil
	default:
		return prompt.Prompt{}, errors.New("a prompt is required: pass --file or --instruction")
	}
}

func newComposeCmd(a *app) *cobra.Command {
	var flags promptFlags

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the composed prompt text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.load()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.Render())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	var (
		flags promptFlags
		send  bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Build a chat completion request from a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.load()
			if err != nil {
				return err
			}

			builder, err := a.newBuilder()
			if err != nil {
				return err
			}
			u, err := builder.Endpoint(endpoint.ChatCompletion)
			if err != nil {
				return err
			}

			spec := builder.Chat(u, models.BuildUserMessage(p.Render()), request.ChatDefaults(a.cfg.Chat)...)
			return a.emit(cmd, spec, send)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "execute the request instead of printing it")
	return cmd
}

func newCompleteCmd(a *app) *cobra.Command {
	var (
		flags promptFlags
		send  bool
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Build a legacy completion request from a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.load()
			if err != nil {
				return err
			}

			builder, err := a.newBuilder()
			if err != nil {
				return err
			}
			u, err := builder.Endpoint(endpoint.LegacyCompletion)
			if err != nil {
				return err
			}

			spec := builder.LegacyCompletion(u, p.Render(), request.CompletionDefaults(a.cfg.Completion)...)
			return a.emit(cmd, spec, send)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&send, "send", false, "execute the request instead of printing it")
	return cmd
}
