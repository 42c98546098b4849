package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Brownie44l1/medict-api/internal/config"
	"github.com/Brownie44l1/medict-api/internal/logger"
	"github.com/Brownie44l1/medict-api/internal/model"
)

func Execute() {
	cmd := newRootCmd(nil)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	cfg  *config.Config
	log  *zap.Logger
	open model.OpenFunc
}

// newRootCmd wires the command tree; a nil open loads models with onnxruntime.
func newRootCmd(open model.OpenFunc) *cobra.Command {
	opts := &options{open: open}
	var (
		port, modelsDir, catalogPath, logLevel, logFormat string
	)

	cmd := &cobra.Command{
		Use:          "medict",
		Short:        "Medical scan classification service for lung, kidney and brain scans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("models-dir") {
				cfg.ModelsDir = modelsDir
			}
			if flags.Changed("catalog") {
				cfg.CatalogPath = catalogPath
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	pf.StringVar(&modelsDir, "models-dir", "", "directory holding <domain>.onnx and <domain>_metadata.json (overrides MODELS_DIR)")
	pf.StringVar(&catalogPath, "catalog", "", "YAML domain catalog replacing the built-in one (overrides CATALOG_PATH)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&logFormat, "log-format", "", "json or console (overrides LOG_FORMAT)")

	cmd.AddCommand(newServeCmd(opts), newClassifyCmd(opts), newDomainsCmd(opts))
	return cmd
}
