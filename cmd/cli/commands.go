package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gapdash/adapters/excel"
	"gapdash/app"
	"gapdash/domain/gapminder"
	"gapdash/internal/config"
	"gapdash/internal/container"
	"gapdash/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// withContainer loads configuration and runs fn against an initialized container
func withContainer(ctx context.Context, fn func(*container.Container) error) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	defer c.Shutdown(context.Background())

	return fn(c)
}

func newContinentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continents",
		Short: "List selectable continents with record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for i, continent := range c.Dashboard.Continents() {
					view := gapminder.Filter(c.Dataset, continent)
					marker := ""
					if i == 0 {
						marker = "(default)"
					}
					fmt.Fprintf(w, "%s\t%d\t%s\n", continent, view.Len(), marker)
				}
				return w.Flush()
			})
		},
	}
}

func newDescribeCmd() *cobra.Command {
	var continent string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print descriptive statistics for one continent",
		Long: `Print the statistics block that the summary prompt embeds.

Example: gapdash-cli describe --continent Europe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				view, err := c.Dashboard.Select(continent)
				if err != nil {
					return err
				}
				table := c.Dashboard.Describe(view)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(table)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n%s\n", view.Continent, view.Len(), table.String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&continent, "continent", "", "Continent to describe (default: first in dataset)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of the text table")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var continent string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate an AI summary for one continent",
		Long: `Generate a natural-language summary of one continent's statistics.

OpenAI configuration is read from:
- OPENAI_API_KEY
- LLM_MODEL (default: o4-mini-2025-04-16)
- OPENAI_BASE_URL (optional; default: https://api.openai.com/v1)
- AI_TIMEOUT (optional; default: 180s)

Example: OPENAI_API_KEY=... gapdash-cli summarize --continent Asia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				view, err := c.Dashboard.Select(continent)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if dryRun {
					for _, msg := range c.Summaries.BuildPrompt(view) {
						fmt.Fprintf(out, "--- %s ---\n%s\n", msg.Role, msg.Content)
					}
					return nil
				}

				fmt.Fprintf(out, "Generating summary for %s with %s...\n", view.Continent, c.Summaries.Model())
				result := c.Summaries.Summarize(cmd.Context(), view)
				if !result.OK() {
					if result.Failure.Kind == app.FailureUnavailable {
						return errors.ConfigInvalid(result.Failure.Message)
					}
					return errors.ExternalServiceError("openai", result.Failure)
				}
				fmt.Fprintf(out, "\n%s\n\n(%s in %v)\n", result.Text, result.Model, result.Duration.Round(time.Millisecond))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&continent, "continent", "", "Continent to summarize (default: first in dataset)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the prompt without calling the API")
	return cmd
}

func newExportCmd() *cobra.Command {
	var continent string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one continent's records to .xlsx or .csv",
		Long: `Write the filtered view to a spreadsheet.

Example: gapdash-cli export --continent Africa --format csv --out africa.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "xlsx" && format != "csv" {
				return fmt.Errorf("unsupported format %q (use xlsx or csv)", format)
			}

			return withContainer(cmd.Context(), func(c *container.Container) error {
				view, err := c.Dashboard.Select(continent)
				if err != nil {
					return err
				}

				if output == "-" {
					return writeView(cmd.OutOrStdout(), format, view)
				}
				if output == "" {
					output = fmt.Sprintf("gapminder_%s.%s", strings.ToLower(view.Continent), format)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := writeView(f, format, view); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", view.Len(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&continent, "continent", "", "Continent to export (default: first in dataset)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "Output format: xlsx|csv")
	cmd.Flags().StringVar(&output, "out", "", "Output path, or - for stdout")
	return cmd
}

func writeView(w io.Writer, format string, view gapminder.View) error {
	if format == "csv" {
		return excel.WriteCSV(w, view)
	}
	return excel.WriteXLSX(w, view)
}

func newUsageCmd() *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show summary call usage recorded in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *container.Container) error {
				if c.DB == nil {
					return fmt.Errorf("DATABASE_URL is not set; usage is only kept in memory by the server")
				}
				summary, err := c.UsageService.Summary(cmd.Context(), window)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			})
		},
	}

	cmd.Flags().DurationVar(&window, "window", 24*time.Hour, "Aggregation window")
	return cmd
}
