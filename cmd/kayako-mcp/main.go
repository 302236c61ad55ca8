// Command kayako-mcp exposes the Kayako Classic REST API as a set of
// MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kayakomcp/internal/config"
	"kayakomcp/internal/kayako"
	"kayakomcp/internal/logging"
	"kayakomcp/internal/mcp"
	"kayakomcp/internal/tools"
	"kayakomcp/internal/tools/ticketing"
)

const version = "1.0.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kayako-mcp",
	Short: "MCP server for the Kayako Classic REST API",
	Long: `kayako-mcp bridges Kayako Classic's XML REST API into MCP tools for
LLM clients: ticket search, retrieval, conversation history, and the
department/status directory.

Environment variables (required):
  KAYAKO_API_URL     Kayako API endpoint, e.g. https://company.kayako.com/api/index.php
  KAYAKO_API_KEY     Kayako API key
  KAYAKO_SECRET_KEY  Kayako secret key

Optional:
  KAYAKO_TIMEOUT_SECONDS   Upstream call timeout (default 30)
  KAYAKO_CHARACTER_LIMIT   Output budget for markdown responses (default 25000)
  KAYAKO_DEBUG             Enable debug logging to stderr

A .env file in the working directory is loaded when present.

Run without arguments to start the stdio server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(verbose || os.Getenv("KAYAKO_DEBUG") != "")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools this server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		for _, tool := range registry.All() {
			fmt.Printf("%-28s %s\n", tool.Name, tool.Description)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("kayako-mcp", version)
	},
}

// buildRegistry loads configuration and wires the toolset. The server
// starts even without credentials; tool calls then fail with a
// configuration message instead of a transport error.
func buildRegistry() (*tools.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set KAYAKO_API_URL, KAYAKO_API_KEY, and KAYAKO_SECRET_KEY.")
	}

	client := kayako.NewClient(cfg.ClientConfig())
	registry := tools.NewRegistry()
	if err := ticketing.New(client, cfg.Limits).RegisterAll(registry); err != nil {
		return nil, err
	}
	logging.Boot("configured=%v tools=%d timeout=%s", client.Configured(), registry.Count(), cfg.API.Timeout)
	return registry, nil
}

func runServe() error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer("kayako-mcp", version, registry, os.Stdin, os.Stdout)
	return server.Serve(ctx)
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.AddCommand(serveCmd, toolsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
