package main

import (
	"fmt"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/docstore"
	"github.com/dgallion1/doctransform/internal/parser"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	var dir, feature string
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Convert txt, md, csv, html, pdf or docx files into documents under the root",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if feature != "" && !slices.Contains(config.Features, feature) {
				return fmt.Errorf("unknown feature %q", feature)
			}
			cfg, log, err := setup(g, cmd)
			if err != nil {
				return err
			}
			store, err := docstore.NewFileStore(cfg.DocRoot, cfg.BackupDir)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
			var imported []string
			for _, file := range args {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				if int64(len(data)) > cfg.MaxUploadBytes {
					return fmt.Errorf("%s exceeds max size (%d bytes)", file, cfg.MaxUploadBytes)
				}
				doc, err := parser.Import(data, file, opts)
				if err != nil {
					return fmt.Errorf("import %s: %w", file, err)
				}
				docID, err := docstore.CleanID(path.Join(filepath.ToSlash(dir), parser.MarkdownName(filepath.Base(file))))
				if err != nil {
					return err
				}
				if err := store.Write(ctx, docID, doc); err != nil {
					return err
				}
				log.Info("document imported", "file", file, "doc_id", docID)
				fmt.Fprintln(cmd.OutOrStdout(), docID)
				imported = append(imported, docID)
			}

			if feature == "" {
				return nil
			}
			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			return runBatch(ctx, a, feature, imported, nil, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory under the root to write documents to")
	cmd.Flags().StringVar(&feature, "then", "", "run this feature over the imported documents")
	return cmd
}

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents under the root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup(g, cmd)
			if err != nil {
				return err
			}
			store, err := docstore.NewFileStore(cfg.DocRoot, cfg.BackupDir)
			if err != nil {
				return err
			}
			docs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range docs {
				title, _ := d.Properties["title"].(string)
				fmt.Fprintf(out, "%-40s %8d  %s\n", d.ID, d.Size, title)
			}
			return nil
		},
	}
}
