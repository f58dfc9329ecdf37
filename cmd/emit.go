package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"aiapi/internal/models"
	"aiapi/internal/transport"
)

// emit prints the redacted spec, or sends it and prints the raw response body.
func (a *app) emit(cmd *cobra.Command, spec models.RequestSpec, send bool) error {
	out := cmd.OutOrStdout()

	if !send {
		data, err := json.MarshalIndent(spec.Redacted(), "", "  ")
		if err != nil {
			return fmt.Errorf("render request: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	if len(spec.Body) == 0 && spec.Method != http.MethodGet {
		return fmt.Errorf("refusing to send %s %s without a body", spec.Method, spec.URL)
	}

	resp, err := transport.New(a.cfg.Provider.Timeout).Do(cmd.Context(), spec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(resp.Body))
	return err
}
