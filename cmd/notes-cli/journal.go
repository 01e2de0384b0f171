package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sqliteadapter "never-notes/internal/adapters/store/sqlite"
	"never-notes/internal/services/auditverify"
	"never-notes/internal/services/webapp"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			db, err := e.openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied successfully: db=%s\n", cfg.DBPath)
			return nil
		},
	}
}

func newEventsCommand(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the host event journal (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			db, err := e.openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			events, err := sqliteadapter.NewStore(db).ListHostEvents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			type row struct {
				EventID     string `json:"event_id"`
				RequestType string `json:"request_type"`
				Status      string `json:"status"`
				NoteCount   int    `json:"note_count"`
				Detail      string `json:"detail"`
				OccurredAt  int64  `json:"occurred_at"`
				ChainHash   string `json:"chain_hash"`
			}
			rows := make([]row, 0, len(events))
			for _, ev := range events {
				rows = append(rows, row{
					EventID:     ev.EventID,
					RequestType: ev.RequestType,
					Status:      string(ev.Status),
					NoteCount:   ev.NoteCount,
					Detail:      ev.Detail(),
					OccurredAt:  ev.OccurredAt,
					ChainHash:   ev.ChainHash,
				})
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "show only the last N events (0 = all)")
	return cmd
}

func newVerifyCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the host event hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			db, err := e.openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			events, err := sqliteadapter.NewStore(db).ListHostEvents(cmd.Context(), 0)
			if err != nil {
				return err
			}
			res := auditverify.VerifyHostEvents(events)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "host event chain verify completed")
			fmt.Fprintf(out, "total=%d failed=%d prev_hash_failed=%d chain_hash_failed=%d\n",
				res.Total, res.Failed, res.PrevHashFailed, res.ChainHashFailed)
			if !res.OK {
				for _, f := range res.Failures {
					fmt.Fprintf(out, "FAIL index=%d event_id=%s message=%s expected_prev=%s actual_prev=%s expected_hash=%s actual_hash=%s\n",
						f.Index, f.EventID, f.Message, f.ExpectedPrevHash, f.ActualPrevHash, f.ExpectedChainHash, f.ActualChainHash,
					)
				}
				return fmt.Errorf("host event chain verify failed")
			}
			return nil
		},
	}
}

// serve 只启动 UI/API 服务，不开窗口；用浏览器打开时页面拿不到 hostInvoke，列表保持为空。
func newServeCommand(e *env) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the embedded UI and API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.ListenAddr = listen
			}
			return webapp.Run(cmd.Context(), webapp.Options{
				NotesDir:   cfg.NotesDir,
				DBPath:     cfg.DBPath,
				ExportDir:  cfg.ExportDir,
				ListenAddr: cfg.ListenAddr,
			}, e.logger(cfg, os.Stderr))
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
