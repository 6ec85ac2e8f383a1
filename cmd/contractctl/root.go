package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/extract"
	"github.com/joseph-ayodele/contracts-tracker/internal/llm/openai"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
	"github.com/joseph-ayodele/contracts-tracker/internal/repository"
	"github.com/joseph-ayodele/contracts-tracker/internal/storage"
)

const inMemoryDSN = "file:contractctl?mode=memory&cache=shared&_pragma=foreign_keys(1)"

// app holds what every subcommand shares. Collaborators are built on demand
// so that extract runs without a database and dbhealth without a provider.
type app struct {
	cfg    *common.Config
	logger *slog.Logger

	configFile string
	logLevel   string
	inMemory   bool

	db *repository.DB
}

// newRootCmd builds the command tree. The caller closes a after Execute.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "contractctl",
		Short: "Extract, ingest and export contract documents",
		Long: `contractctl runs the contract extraction pipeline from the command line.

Configuration comes from the environment (and a .env file when present), the
same keys contractsd reads.

Examples:
  contractctl extract ./agreement.pdf
  contractctl ingest ./inbox --user 550e8400-e29b-41d4-a716-446655440000 --workers 4
  contractctl ingest ./inbox --watch
  contractctl export --user 550e8400-e29b-41d4-a716-446655440000 --out contracts.xlsx
  contractctl dbhealth`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML config overlay (same as CONFIG_FILE)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.inMemory, "inmem", false, "use an in-memory sqlite database")

	root.AddCommand(
		newExtractCmd(a),
		newIngestCmd(a),
		newExportCmd(a),
		newDBHealthCmd(a),
	)
	return root
}

func (a *app) init() error {
	if a.configFile != "" {
		if err := os.Setenv("CONFIG_FILE", a.configFile); err != nil {
			return err
		}
	}
	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.inMemory {
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = inMemoryDSN
	}
	a.cfg = cfg
	a.logger = common.NewLogger(cfg.Log)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close(a.logger)
		a.db = nil
	}
}

// openDB opens and migrates the configured database once per invocation.
func (a *app) openDB(ctx context.Context) (*repository.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.cfg.Database.DSN == "" {
		return nil, common.NewConfigError("missing required environment variable: DB_URL (or pass --inmem)")
	}
	db, err := repository.Open(ctx, repository.Config{
		Driver:          a.cfg.Database.Driver,
		DSN:             a.cfg.Database.DSN,
		MaxConns:        a.cfg.Database.MaxConns,
		MinConns:        a.cfg.Database.MinConns,
		MaxConnLifetime: a.cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: a.cfg.Database.MaxConnIdleTime,
		DialTimeout:     a.cfg.Database.DialTimeout,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close(a.logger)
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) processor() (*pipeline.Processor, error) {
	if a.cfg.LLM.APIKey == "" {
		return nil, common.NewConfigError("missing required environment variable: OPENAI_API_KEY")
	}
	client := openai.NewClient(openai.Config{
		APIKey:      a.cfg.LLM.APIKey,
		BaseURL:     a.cfg.LLM.BaseURL,
		Model:       a.cfg.LLM.Model,
		VisionModel: a.cfg.LLM.VisionModel,
		Timeout:     a.cfg.LLM.Timeout,
	}, a.logger)
	return pipeline.NewProcessor(a.logger, extract.New(a.cfg.Extract, a.logger), pipeline.NewOrchestrator(a.logger, client, nil)), nil
}

// store uses the configured bucket, or keeps uploads in memory when no
// endpoint is set.
func (a *app) store(ctx context.Context) (storage.FileStore, error) {
	if a.cfg.ObjectStore.Endpoint == "" {
		a.logger.Warn("storage.memory", "reason", "OBJECT_STORE_ENDPOINT not set; uploads are not kept")
		return storage.NewMemoryStore(), nil
	}
	s, err := storage.NewMinioStore(a.cfg.ObjectStore, a.logger)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) contractService(ctx context.Context) (*contracts.Service, error) {
	proc, err := a.processor()
	if err != nil {
		return nil, err
	}
	db, err := a.openDB(ctx)
	if err != nil {
		return nil, err
	}
	store, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	repo := repository.NewContractRepository(db, a.logger)
	return contracts.NewService(repo, store, proc, reminder.NewScheduler(a.logger), a.logger), nil
}

var errUserRequired = errors.New("--user must be a UUID")
