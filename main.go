package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/messmill/backend/internal/config"
	v1 "github.com/messmill/backend/internal/controllers/v1"
	"github.com/messmill/backend/internal/importer"
	"github.com/messmill/backend/internal/importer/parser/localstorage"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Time that open requests get to finish on shutdown
const shutdownTimeout = 10 * time.Second

var (
	cfg     config.Config
	envFile string
)

func main() {
	root := &cobra.Command{
		Use:               "mess-mill",
		Short:             "Ledger for the money, meals and expenses of a student mess",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file to read environment variables from")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a document in the browser storage layout",
		Args:  cobra.ExactArgs(1),
		RunE:  importFile,
	})

	root.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write all data as a document in the browser storage layout",
		Long:  "Write all data as a document in the browser storage layout. Without a file, the document is written to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportFile,
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup reads the configuration and sets up logging.
func setup(_ *cobra.Command, _ []string) (err error) {
	cfg, err = config.Load(envFile)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(output).With().Timestamp().Logger()

	models.Location = cfg.Location
	v1.ReportOptions = cfg.Report

	return nil
}

// connect opens the database in the data directory. The returned function
// closes it.
func connect() (func(), error) {
	err := os.MkdirAll(cfg.DataDir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	err = models.Connect(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	return func() {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}, nil
}

func serve(cmd *cobra.Command, _ []string) error {
	disconnect, err := connect()
	if err != nil {
		return err
	}
	defer disconnect()

	r, teardown, err := router.Config(cfg.APIURL)
	defer teardown()
	if err != nil {
		return err
	}
	router.AttachRoutes(r.Group("/"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,

		// Requests end on shutdown, this closes the event streams
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("address", server.Addr).Str("url", cfg.APIURL.String()).Msg("Listening")

		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func importFile(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	resources, err := localstorage.Parse(f)
	if err != nil {
		return err
	}

	disconnect, err := connect()
	if err != nil {
		return err
	}
	defer disconnect()

	summary, err := importer.Create(models.DB, resources)
	if err != nil {
		return err
	}

	for _, warning := range summary.Warnings {
		log.Warn().Str("file", args[0]).Msg(warning)
	}
	log.Info().Int("students", summary.Students).Int("mealDays", summary.MealDays).Int("expenses", summary.Expenses).Str("checksum", summary.Checksum).Msg("import")

	return nil
}

func exportFile(cmd *cobra.Command, args []string) error {
	disconnect, err := connect()
	if err != nil {
		return err
	}
	defer disconnect()

	doc, err := localstorage.Export(models.DB)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	return os.WriteFile(args[0], append(data, '\n'), 0o600)
}
