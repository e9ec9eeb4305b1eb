package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clutchscan/clutchscan/internal/config"
)

// NewCategoriesCmd creates the categories command.
func NewCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the built-in directory categories",
		Long: `List every Development subcategory clutchscan knows about, in crawl
order, together with its listing URL. The names are what --categories
and --skip-categories match against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tURL")
			for _, c := range config.DevelopmentCategories {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.URL)
			}
			return w.Flush()
		},
	}
}
