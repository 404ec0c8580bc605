package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"expense-categorizer-api/internal/config"
	"expense-categorizer-api/pkg/server"
)

// NewRootCmd creates the 'categorize' command
func NewRootCmd() *cobra.Command {
	var model, baseURL string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "categorize [file]",
		Short: "Extract and categorize the expenses in a report",
		Long: "Reads expense report text from a file, or from stdin when the file is omitted or '-', " +
			"and prints the categorized expenses as JSON.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.OpenAI.Model = model
			}
			if baseURL != "" {
				cfg.OpenAI.BaseURL = baseURL
			}

			if err := config.ConfigureLogging(cfg.Logging); err != nil {
				return err
			}
			// stdout carries the result
			logrus.SetOutput(cmd.ErrOrStderr())

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			container, err := server.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer container.Close()

			result, err := container.CategorizationService.Categorize(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := []byte(result.Body)
			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, result.Body, "", "  "); err != nil {
					return err
				}
				out = buf.Bytes()
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Completion model (overrides OPENAI_MODEL)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Completion API base URL (overrides OPENAI_BASE_URL)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")

	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
