package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Brownie44l1/medict-api/internal/container"
	"github.com/Brownie44l1/medict-api/internal/diagnosis"
	"github.com/Brownie44l1/medict-api/internal/domain"
)

func newClassifyCmd(opts *options) *cobra.Command {
	var (
		domainName string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "classify --domain <lung|kidney|brain> <image>...",
		Short: "Classify scan images without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("--output must be text or json, got %q", output)
			}

			c, err := container.Build(cmd.Context(), opts.cfg, opts.log, opts.open)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				ctx := diagnosis.WithRequestID(cmd.Context(), uuid.NewString())
				result, err := c.Pipeline.Classify(ctx, domainName, raw)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if output == "json" {
					if err := json.NewEncoder(out).Encode(struct {
						File string `json:"file"`
						*domain.Diagnosis
					}{path, result}); err != nil {
						return err
					}
					continue
				}
				printDiagnosis(out, path, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&domainName, "domain", "d", "", "diagnostic domain (lung, kidney or brain)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "text or json")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func printDiagnosis(w io.Writer, path string, d *domain.Diagnosis) {
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  %s: %s (%.2f%%, %s)\n", d.DomainName, d.Label, d.Confidence*100, d.Outcome)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range d.Probabilities {
		fmt.Fprintf(tw, "    %s\t%.4f\n", s.Label, s.Probability)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "  %s\n", d.Message)
	if d.Advice != "" {
		fmt.Fprintf(w, "  %s\n", d.Advice)
	}
}
