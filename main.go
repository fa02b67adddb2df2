package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triviaboard/config"
	"triviaboard/config/database"
	"triviaboard/internal/quiz/repository"
	"triviaboard/pkg/logger"
	"triviaboard/pkg/metrics"
	"triviaboard/router"
	"triviaboard/socket"
	"triviaboard/store"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "triviaboard",
		Short: "Trivia questions and yearly leaderboards over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Load the documents and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Load both documents and print their sizes",
			RunE: func(cmd *cobra.Command, args []string) error {
				return check(cmd)
			},
		},
		&cobra.Command{
			Use:   "import",
			Short: "Copy QUESTIONS_FILE and LEADERBOARD_FILE from disk into Postgres",
			RunE: func(cmd *cobra.Command, args []string) error {
				return importFiles()
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, func(), store.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Init(cfg.Log.Level)

	if cfg.Storage.Driver == config.DriverFile {
		return cfg, func() { logger.Sync() }, store.NewFileBackend(), nil
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	backend := store.NewPostgresBackend(db)
	if err := backend.EnsureSchema(); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return cfg, func() { db.Close(); logger.Sync() }, backend, nil
}

func serve() error {
	cfg, cleanup, backend, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	// Without both documents there is nothing to serve.
	repo, err := repository.Load(backend, cfg.Storage.QuestionsFile, cfg.Storage.LeaderboardFile)
	if err != nil {
		logger.Sugar.Errorf("Failed to load data: %v", err)
		return err
	}
	categories, questions, years, players := repo.Stats()
	logger.Sugar.Infof("Loaded %d questions in %d categories, %d players across %d years", questions, categories, players, years)

	m := metrics.New()
	hub := socket.NewHub(repo)
	hub.OnClientsChanged = func(delta int) { m.FeedClients.Add(float64(delta)) }
	go hub.Run()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Setup(repo, hub, m, cfg.Server.AllowedOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Server is live on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Sugar.Errorf("Server failed: %v", err)
		return err
	case sig := <-stop:
		logger.Sugar.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func check(cmd *cobra.Command) error {
	cfg, cleanup, backend, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	repo, err := repository.Load(backend, cfg.Storage.QuestionsFile, cfg.Storage.LeaderboardFile)
	if err != nil {
		return err
	}
	categories, questions, years, players := repo.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "categories: %d\nquestions: %d\nyears: %d\nplayers: %d\n", categories, questions, years, players)
	return nil
}

func importFiles() error {
	cfg, cleanup, backend, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Storage.Driver != config.DriverPostgres {
		return fmt.Errorf("import needs STORAGE_DRIVER=%s", config.DriverPostgres)
	}

	files := store.NewFileBackend()
	for _, name := range []string{cfg.Storage.QuestionsFile, cfg.Storage.LeaderboardFile} {
		var doc any
		if err := store.LoadDocument(files, name, &doc); err != nil {
			return err
		}
		if err := store.SaveDocument(backend, name, doc); err != nil {
			return err
		}
		logger.Sugar.Infof("Imported %s", name)
	}
	return nil
}
