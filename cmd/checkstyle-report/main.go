// Package main provides the checkstyle-report entry point, run as a GitHub
// Actions step.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for minimal container images

	"github.com/wborn/checkstyle-github-action/internal/adapter/driven/actions"
	"github.com/wborn/checkstyle-github-action/internal/adapter/driven/checkstyle"
	githubadapter "github.com/wborn/checkstyle-github-action/internal/adapter/driven/github"
	"github.com/wborn/checkstyle-github-action/internal/adapter/driven/search"
	sqliteadapter "github.com/wborn/checkstyle-github-action/internal/adapter/driven/sqlite"
	"github.com/wborn/checkstyle-github-action/internal/application"
	"github.com/wborn/checkstyle-github-action/internal/config"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

var version = "dev"

// options holds command-line overrides. Empty values leave the INPUT_*
// environment in charge.
type options struct {
	envFile    string
	path       string
	mode       string
	name       string
	title      string
	token      string
	ledgerPath string
}

func main() {
	commands := actions.NewCommandWriter(os.Stdout)

	if err := newRootCmd(commands).Execute(); err != nil {
		commands.Fail(err)
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(commands *actions.CommandWriter) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "checkstyle-report",
		Short: "Report Checkstyle results as GitHub check runs or inline annotations",
		Long: `checkstyle-report finds Checkstyle XML result files, converts every
violation into an annotation and reports them either as a named check run on
the commit (mode "separate") or as error annotations in the job log (mode
"inline"). Inputs are read from INPUT_* environment variables; flags override
them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, commands, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.envFile, "env-file", "", "godotenv file with INPUT_* and GITHUB_* variables, loaded before the environment is read")
	flags.StringVar(&opts.path, "path", "", "search pattern(s) for result files, one per line (INPUT_PATH)")
	flags.StringVar(&opts.mode, "mode", "", `"separate" or "inline" (INPUT_MODE)`)
	flags.StringVar(&opts.name, "name", "", "check run name (INPUT_NAME)")
	flags.StringVar(&opts.title, "title", "", "check run output title (INPUT_TITLE)")
	flags.StringVar(&opts.token, "token", "", "GitHub token (INPUT_TOKEN)")
	flags.StringVar(&opts.ledgerPath, "ledger", "", "SQLite file recording check run writes (INPUT_LEDGER_PATH)")

	return cmd
}

func run(ctx context.Context, opts options, commands driven.DiagnosticSink, logOut io.Writer) error {
	// 1. Load configuration; the env file wins over the inherited environment.
	if opts.envFile != "" {
		if err := godotenv.Overload(opts.envFile); err != nil {
			return fmt.Errorf("loading env file %q: %w", opts.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	invocationID := uuid.NewString()
	logger.Debug("config loaded",
		"invocation_id", invocationID,
		"mode", cfg.Mode,
		"name", cfg.Name,
		"workspace", cfg.Workspace,
		"api_url", cfg.APIURL,
		"ledger", cfg.LedgerPath,
	)

	// 2. Cancel outstanding API calls when the runner stops the step.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	execCtx := githubadapter.LoadExecutionContext(logger)
	logger.Debug("execution context loaded",
		"repository", execCtx.Repository,
		"event", execCtx.EventName,
		"head_sha", execCtx.HeadSHA(),
	)

	// 3. Open the optional upload ledger.
	var ledger driven.ReportLedger
	if cfg.HasLedger() {
		db, err := sqliteadapter.OpenLedger(ctx, cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing ledger database", "error", closeErr)
			}
		}()

		ledger = sqliteadapter.NewLedgerRepo(db)
		logger.Debug("ledger opened", "path", db.Path())
	}

	// 4. Wire adapters.
	ghClient, err := githubadapter.NewClient(cfg.Token, cfg.APIURL)
	if err != nil {
		return err
	}

	reporter := application.NewCheckReporter(ghClient, ledger, invocationID, application.MaxAnnotationsPerRequest, logger)
	emitter := application.NewInlineEmitter(commands, logger)
	pipeline := application.NewPipeline(
		search.NewSearcher(),
		checkstyle.NewParser(cfg.Workspace),
		reporter,
		emitter,
		logger,
	)

	// 5. Run once.
	return pipeline.Run(ctx, execCtx, application.RunRequest{
		Path:  cfg.Path,
		Mode:  cfg.Mode,
		Name:  cfg.Name,
		Title: cfg.Title,
	})
}

// applyOverrides copies non-empty flag values over the loaded configuration.
func applyOverrides(cfg *config.Config, opts options) {
	if opts.path != "" {
		cfg.Path = opts.path
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.name != "" {
		cfg.Name = opts.name
	}
	if opts.title != "" {
		cfg.Title = opts.title
	}
	if opts.token != "" {
		cfg.Token = opts.token
	}
	if opts.ledgerPath != "" {
		cfg.LedgerPath = opts.ledgerPath
	}
}
