package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"never-notes/internal/adapters/notes"
	sqliteadapter "never-notes/internal/adapters/store/sqlite"
	"never-notes/internal/app"
)

// CLI 入口。所有子命令错误都统一输出到 stderr 并返回非 0 状态码。
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env 保存全局参数，子命令通过它拿配置、笔记目录和数据库。
type env struct {
	fs afero.Fs

	configPath string
	notesDir   string
	dbPath     string
	logLevel   string
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	e := &env{fs: fsys}

	root := &cobra.Command{
		Use:           "notes-cli",
		Short:         "Inspect the NeVeR notes folder and host event journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "yaml config file")
	root.PersistentFlags().StringVar(&e.notesDir, "notes", "", "notes directory (overrides config)")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "sqlite database path (overrides config)")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")

	root.AddCommand(
		newListCommand(e),
		newShowCommand(e),
		newRenderCommand(e),
		newExportPDFCommand(e),
		newEventsCommand(e),
		newVerifyCommand(e),
		newMigrateCommand(e),
		newServeCommand(e),
	)
	return root
}

// config 读取配置文件并叠加命令行参数。
func (e *env) config() (app.Config, error) {
	cfg, err := app.LoadConfig(e.configPath)
	if err != nil {
		return app.Config{}, err
	}
	if e.notesDir != "" {
		cfg.NotesDir = e.notesDir
	}
	if e.dbPath != "" {
		cfg.DBPath = e.dbPath
	}
	if e.logLevel != "" {
		cfg.LogLevel = e.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func (e *env) logger(cfg app.Config, w io.Writer) *slog.Logger {
	return cfg.NewLogger(w)
}

func (e *env) folder(cfg app.Config, logw io.Writer) *notes.Folder {
	return notes.NewFolder(e.fs, cfg.NotesDir, e.logger(cfg, logw))
}

// openDB 打开数据库并确保迁移已执行。
func (e *env) openDB(ctx context.Context, cfg app.Config) (*sql.DB, error) {
	db, err := sqliteadapter.OpenDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.NewMigrator(db).Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return db, nil
}

func printJSON(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
