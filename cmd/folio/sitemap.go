package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bikatr7/folio"
	"github.com/bikatr7/folio/blogapi"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Write the dual-domain sitemap",
	Long: `Fetch every post from the backend and write the sitemap for both domains.

Examples:
  folio sitemap                         # Print to stdout
  folio sitemap -o public/sitemap.xml   # Write a file`,
	RunE: runSitemap,
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
	sitemapCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func runSitemap(cmd *cobra.Command, args []string) error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	if cfg.APIURL == "" {
		return fmt.Errorf("API_URL is not set")
	}
	// Fills in the default identities.
	ids := folio.New(cfg).Config.Identities()

	timeout := cfg.APITimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	posts, err := blogapi.New(cfg.APIURL, blogapi.WithTimeout(timeout)).AllPosts(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching posts: %w", err)
	}
	urls := folio.BuildSitemap(ids, posts, time.Now())

	var w io.Writer = cmd.OutOrStdout()
	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := folio.WriteSitemap(w, urls); err != nil {
		return err
	}
	if output != "" {
		logger.Info("sitemap written", "path", output, "urls", len(urls))
	}
	return nil
}
