package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/medict-api/internal/catalog"
)

func newDomainsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List the diagnostic domains and their labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if opts.cfg.CatalogPath != "" {
				cat, err = catalog.LoadFile(opts.cfg.CatalogPath)
			} else {
				cat, err = catalog.Default()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				type entry struct {
					Kind          string   `json:"kind"`
					Name          string   `json:"name"`
					Labels        []string `json:"labels"`
					NegativeLabel string   `json:"negative_label"`
				}
				entries := make([]entry, 0, len(cat.List()))
				for _, d := range cat.List() {
					entries = append(entries, entry{d.Kind.String(), d.Name, d.Labels, d.NegativeLabel})
				}
				return json.NewEncoder(out).Encode(entries)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tNAME\tLABELS\tNEGATIVE")
			for _, d := range cat.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Kind, d.Name, strings.Join(d.Labels, ", "), d.NegativeLabel)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
