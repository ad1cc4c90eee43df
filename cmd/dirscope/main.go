// Package main is the entry point for the dirscope server and CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/CageChen/dirscope/internal/browse"
	"github.com/CageChen/dirscope/internal/config"
	mfs "github.com/CageChen/dirscope/internal/fs"
	"github.com/CageChen/dirscope/internal/handler"
)

// version is set via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var overrides config.Overrides

	root := &cobra.Command{
		Use:   "dirscope",
		Short: "Browse a server's filesystem and count files by size",
		Long: heredoc.Doc(`
			dirscope lets remote clients browse the server's filesystem over HTTP.

			Each client session has a current directory. Clients list it, move
			into a subdirectory or up to the parent, and ask for a census: a
			recursive count of files in four size buckets (up to 10 MiB, 50 MiB,
			100 MiB, and larger) plus the number of directories visited and the
			number that could not be read.
		`),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&overrides.ConfigFile, "config", "", "Configuration file path")
	root.PersistentFlags().StringVar(&overrides.GitRepo, "git-repo", "", "Browse a git repository instead of the local disk")
	root.PersistentFlags().StringVar(&overrides.GitRef, "git-ref", "", "Git ref to browse (default HEAD)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(overrides)
		},
	}
	serve.Flags().IntVarP(&overrides.Port, "port", "P", 0, "HTTP server port")
	serve.Flags().StringVarP(&overrides.StartDir, "path", "p", "", "Directory sessions start in")
	serve.Flags().BoolVar(&overrides.Open, "open", false, "Open browser on startup")

	root.AddCommand(serve, newCensusCmd(&overrides), newConfigCmd(&overrides))
	return root
}

// listerFor returns the enumeration backend selected by the configuration.
func listerFor(cfg *config.Config) mfs.Lister {
	if cfg.GitRepo != "" {
		return mfs.NewGitFS(cfg.GitRepo, cfg.GitRef)
	}
	return mfs.NewLocalFS()
}

func runServe(overrides config.Overrides) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lister := listerFor(cfg)

	log.Printf("dirscope - filesystem census")
	log.Printf("Config file: %s", cfg.GetConfigFilePath())
	if cfg.GitRepo != "" {
		log.Printf("Browsing %s (git ref: %s)", cfg.GitRepo, cfg.GitRef)
	}
	log.Printf("Sessions start in: %s", lister.DisplayName(cfg.StartDir))
	log.Printf("Server starting at: http://localhost:%d", cfg.Port)

	wsHandler := handler.NewWSHandler()
	store := browse.NewStore(lister, cfg.StartDir, browse.Options{
		ProgressInterval: cfg.ProgressInterval,
		Notify:           wsHandler.Notify,
	}, cfg.SessionIdleTimeout)
	defer store.Close()

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.NewBrowseHandler(store, wsHandler))

	// Open browser if requested
	if cfg.Open {
		go openBrowser(fmt.Sprintf("http://localhost:%d/api/file", cfg.Port))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := r.Run(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
