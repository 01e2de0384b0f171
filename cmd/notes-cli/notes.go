package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"never-notes/internal/domain/model"
	"never-notes/internal/services/notedoc"
	"never-notes/internal/services/noteexport"
	"never-notes/internal/services/webapp"
	"never-notes/internal/ui/dom/htmldom"
	"never-notes/internal/ui/notelist"
)

func newListCommand(e *env) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes in the notes folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			list, err := e.folder(cfg, cmd.ErrOrStderr()).List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), model.NoteNames(list))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tSHA256")
			for _, n := range list {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", n.Name, n.SizeBytes,
					time.Unix(n.ModifiedAt, 0).UTC().Format(time.RFC3339), n.SHA256[:12])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print note names as a JSON array")
	return cmd
}

func newShowCommand(e *env) *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print one note (raw, or rendered to HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			n, err := e.folder(cfg, cmd.ErrOrStderr()).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := n.Content
			if asHTML {
				out = notedoc.Render(n)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render markdown / escape text as the viewer does")
	return cmd
}

// render 在服务端用 htmldom 执行一次列表渲染，输出页面快照，便于排查页面与宿主的约定。
func newRenderCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the page with the current note list rendered into it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			list, err := e.folder(cfg, cmd.ErrOrStderr()).List(cmd.Context())
			if err != nil {
				return err
			}

			ui, err := webapp.UI()
			if err != nil {
				return err
			}
			raw, err := fs.ReadFile(ui, "index.html")
			if err != nil {
				return fmt.Errorf("read embedded index.html: %w", err)
			}
			doc, err := htmldom.Parse(bytes.NewReader(raw))
			if err != nil {
				return err
			}
			if err := notelist.New(doc).Render(model.NoteNames(list)); err != nil {
				return err
			}
			return doc.Render(cmd.OutOrStdout())
		},
	}
}

func newExportPDFCommand(e *env) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export-pdf",
		Short: "Export a PDF index of all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.ExportDir
			}
			list, err := e.folder(cfg, cmd.ErrOrStderr()).List(cmd.Context())
			if err != nil {
				return err
			}
			res, err := noteexport.ExportPDF(cmd.Context(), list, noteexport.Options{
				OutputDir: outDir,
				NotesDir:  cfg.NotesDir,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: export_dir from config)")
	return cmd
}
