package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tobiaswagner/gruppentool/internal/groups"
	"github.com/tobiaswagner/gruppentool/internal/progress"
	"github.com/tobiaswagner/gruppentool/internal/search"
	"github.com/tobiaswagner/gruppentool/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local widget API server",
	Long: `Loads the full ChurchTools reference data (persons, groups, group types,
roles) and serves the widget API: ranked search, selection sessions, and
the group-creation workflow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dir, client, err := loadDirectory(ctx, cfg, logger, progress.NewReporter())
		if err != nil {
			return err
		}

		engine := search.NewEngine(dir, logger)
		workflow := groups.NewWorkflow(client, workflowSettings(cfg), logger)

		port := cfg.Port
		if servePort != 0 {
			port = servePort
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: serveAllowAll || cfg.AllowAllOrigins,
		}, dir, engine, workflow, logger)

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		me := dir.Me()
		fmt.Fprintf(os.Stderr, "gruppentool %s, angemeldet als %s\n", Version, me.DisplayName())
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
