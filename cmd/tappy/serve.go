package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/byrencheema/tappy/pkg/browseruse"
	"github.com/byrencheema/tappy/pkg/db"
	"github.com/byrencheema/tappy/pkg/db/migrations"
	"github.com/byrencheema/tappy/pkg/executor"
	"github.com/byrencheema/tappy/pkg/llm"
	"github.com/byrencheema/tappy/pkg/logger"
	"github.com/byrencheema/tappy/pkg/notifications"
	"github.com/byrencheema/tappy/pkg/pipeline"
	"github.com/byrencheema/tappy/pkg/planner"
	"github.com/byrencheema/tappy/pkg/server"
	"github.com/byrencheema/tappy/pkg/skills"
	"github.com/byrencheema/tappy/pkg/skills/builtin"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the note ingestion server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Host to bind (overrides config)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().Bool("test-mode", false, "Return canned skill results instead of calling the browser automation provider")

	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("test_mode", serveCmd.Flags().Lookup("test-mode"))
}

func serve(ctx context.Context) error {
	log := logger.G(ctx)

	dbPath := viper.GetString("db_path")
	if dbPath == "" {
		var err error
		dbPath, err = db.DefaultDBPath()
		if err != nil {
			return err
		}
	}

	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, migrations.All()); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	client := browseruse.New(browseruse.Config{
		APIKey:    viper.GetString("browser_use_api_key"),
		BaseURL:   viper.GetString("browser_use_base_url"),
		ProfileID: viper.GetString("browser_use_profile_id"),
	})

	registry := skills.NewRegistry()
	if err := builtin.Register(registry, client); err != nil {
		return errors.Wrap(err, "failed to register skills")
	}
	log.WithField("skills", registry.Len()).Info("skill registry ready")

	completer, err := llm.NewCompleter(llm.Config{
		Provider: viper.GetString("provider"),
		Model:    viper.GetString("model"),
		BaseURL:  viper.GetString("llm_base_url"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create planner model client")
	}

	plan := planner.New(completer, registry)
	exec := executor.New(registry, executor.Config{
		Timeout:  viper.GetDuration("skill_timeout"),
		TestMode: viper.GetBool("test_mode"),
	})

	store := notifications.NewStore(sqlDB)
	hub := notifications.NewHub()
	service := notifications.NewService(store, hub)

	pipe := pipeline.New(plan, exec, registry, service)

	srv, err := server.New(&server.Config{
		Host: viper.GetString("host"),
		Port: viper.GetInt("port"),
	}, pipe, service)
	if err != nil {
		return err
	}

	if viper.GetBool("test_mode") {
		log.Warn("test mode enabled, skills return canned results")
	}

	if err := srv.Start(ctx); err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}

	log.Info("server stopped")
	return nil
}
