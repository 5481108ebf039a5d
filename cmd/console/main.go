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

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-console/internal/presentation/http/handler"
	"github.com/sangkips/invoice-console/internal/presentation/http/routes"
	"github.com/sangkips/invoice-console/pkg/utils"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "console",
		Short:         "Invoicing admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCommand(), newDownloadCommand(), newImportProductsCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	a := newApp()
	cfg := a.cfg

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, locker, err := a.sessionBackends(ctx)
	if err != nil {
		return err
	}
	idempotencyRepo, err := a.idempotencyRepository()
	if err != nil {
		return err
	}
	workspace := a.workspace(store, locker, idempotencyRepo)
	console := handler.NewConsole(workspace, a.logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Merchant:    handler.NewMerchantHandler(console, a.merchants),
		Customer:    handler.NewCustomerHandler(console, a.customers),
		Product:     handler.NewProductHandler(console, a.products),
		Compliance:  handler.NewComplianceHandler(console, a.taxes, a.discounts),
		Invoice:     handler.NewInvoiceHandler(console, a.invoices, workspace),
		Spreadsheet: handler.NewSpreadsheetHandler(console, a.spreadsheet),
		API:         handler.NewAPIHandler(a.options, a.invoices),
	}

	router, err := routes.Setup(handlers, &routes.Deps{
		Tokens:          utils.NewSessionTokenManager(cfg.Session.Secret, cfg.Session.TTL, cfg.App.Name),
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	port := cfg.App.Port
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.purgeIdempotencyKeys(ctx, idempotencyRepo)

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("env", cfg.App.Env).Infof("Starting %s server on port %s...", cfg.App.Name, port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newDownloadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <invoice-id>",
		Short: "Save the PDF of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			id := args[0]
			data, err := a.invoices.Download(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to download invoice %s: %w", id, err)
			}
			if output == "" {
				output = id + ".pdf"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", output, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <invoice-id>.pdf)")
	return cmd
}

func newImportProductsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-products <file.xlsx>",
		Short: "Create products from the rows of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.spreadsheet.ImportProducts(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d of %d products\n", result.Successful, result.TotalRows)
			for _, rowErr := range result.Errors {
				fmt.Fprintf(out, "Row %d: %s\n", rowErr.Row, rowErr.Message)
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d rows failed", result.Failed)
			}
			return nil
		},
	}
}
