package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bikatr7/folio/slug"
)

var slugCmd = &cobra.Command{
	Use:   "slug <title>",
	Short: "Print the URL slug for a post title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), slug.Slugify(strings.Join(args, " ")))
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <param>",
	Short: "Show how a /blog/:param value is looked up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := slug.Resolve(args[0])
		kind := "id"
		if r.IsSlug {
			kind = "slug"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", kind, r.Endpoint())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the folio version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(slugCmd, resolveCmd, versionCmd)
}
