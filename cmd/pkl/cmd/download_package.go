package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var packageCacheDir string

var downloadPackageCmd = &cobra.Command{
	Use:   "download-package [package-uri]",
	Short: "Fetch a package archive into the local package cache",
	Long: `Download the archive at an http:// or https:// URI into the package
cache directory. package:// URIs are not accepted, and the module loader
does not read this cache.

This does not implement dependency resolution (spec.md's Non-goals exclude
package publishing tooling); it only fetches and caches one archive at a
time, the retrieval half of a package manager.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownloadPackage,
}

func init() {
	rootCmd.AddCommand(downloadPackageCmd)

	home, _ := os.UserHomeDir()
	downloadPackageCmd.Flags().StringVar(&packageCacheDir, "cache-dir", filepath.Join(home, ".pkl", "cache"), "directory packages are downloaded into")
}

func runDownloadPackage(_ *cobra.Command, args []string) error {
	uri := args[0]

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(uri)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: server returned %s", uri, resp.Status)
	}

	if err := os.MkdirAll(packageCacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", packageCacheDir, err)
	}

	dest := filepath.Join(packageCacheDir, filepath.Base(uri))
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "downloaded %d bytes to %s\n", n, dest)
	}
	fmt.Println(dest)
	return nil
}
