package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/routemap/internal/db"
	"github.com/ziadkadry99/routemap/internal/project"
	"github.com/ziadkadry99/routemap/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the project file and topology HTTP server",
	Long: `Starts the routemap HTTP server. Projects hold flow files in a SQLite
database under server.data_dir; each project's topology is available as a
graph model, a Mermaid diagram, an HTML report and a live websocket feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		dbPath := filepath.Join(cfg.Server.DataDir, "routemap.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		svc, err := project.NewService(project.NewStore(database), project.ServiceConfig{
			CacheSize: cfg.Cache.Size,
			Derive:    deriveOptions(cfg),
			Logger:    log,
		})
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     port,
			DataDir:  cfg.Server.DataDir,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, database, svc, log)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("routemap server starting", "version", Version, "port", port, "database", dbPath)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
