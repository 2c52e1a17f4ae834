package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Vietnguyen696/LuongPheDuyet/internal/application/services"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/bootstrap"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/config"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/interfaces/middleware"
	"github.com/Vietnguyen696/LuongPheDuyet/internal/interfaces/rest"
	"github.com/Vietnguyen696/LuongPheDuyet/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

type cli struct {
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
	envFile string
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	c.envFile = config.LoadDotEnv()

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	c.logger = logger
	if c.envFile != "" {
		c.logger.Info("Loaded .env", zap.String("path", c.envFile))
	}
	return nil
}

func (c *cli) newRouter(svc *services.PortalService) *gin.Engine {
	gin.SetMode(c.cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(c.logger))

	// CORS middleware - Allow requests from any origin
	router.Use(middleware.Cors())

	rest.RegisterRoutes(router, rest.NewApprovalHandler(svc, c.cfg.PageSize))
	return router
}

func (c *cli) serve(cmd *cobra.Command, args []string) error {
	defer func() { _ = c.logger.Sync() }()

	registry, err := bootstrap.InitializeRegistry(c.cfg.ProcessesFile, c.logger)
	if err != nil {
		return err
	}

	store := services.NewRecordStore()
	approver := services.NewStaticApprover(c.cfg.ApproverName, c.cfg.ApproverRole)
	svc := services.NewPortalService(registry, store, approver, c.logger)
	c.logger.Info("🔧 Portal service initialized", zap.String("approver", approver.Name))

	srv := &http.Server{
		Addr:    c.cfg.Addr(),
		Handler: c.newRouter(svc),
	}

	c.logger.Info("🚀 Approval portal started",
		zap.String("server", fmt.Sprintf("http://localhost:%d", c.cfg.Port)),
		zap.String("records_api", fmt.Sprintf("http://localhost:%d/api/records", c.cfg.Port)),
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", c.cfg.Port)),
	)

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	c.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	c.logger.Info("🛑 Server exiting", zap.Int("records", store.Len()))
	return nil
}

func (c *cli) processes(cmd *cobra.Command, args []string) error {
	registry, err := bootstrap.InitializeRegistry(c.cfg.ProcessesFile, nil)
	if err != nil {
		return err
	}
	configs := registry.List()

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(map[string]interface{}{"processes": configs})
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLEVELS\tLABEL")
		for _, cfg := range configs {
			fmt.Fprintf(w, "%s\t%d\t%s\n", cfg.ID, cfg.Levels, cfg.Label)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported output %q (table, yaml)", output)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:               "portal",
		Short:             "Personnel record approval portal",
		SilenceUsage:      true,
		PersistentPreRunE: c.setupConfig,
	}
	if err := config.SetupFlags(root.PersistentFlags(), c.v); err != nil {
		panic(err)
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  c.serve,
	}

	processesCmd := &cobra.Command{
		Use:   "processes",
		Short: "Print the process catalog",
		RunE:  c.processes,
	}
	processesCmd.Flags().StringP("output", "o", "table", "output format (table, yaml)")

	root.AddCommand(serveCmd, processesCmd)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
