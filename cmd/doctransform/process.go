package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/doctransform/internal/config"
	"github.com/dgallion1/doctransform/internal/pipeline"
)

var featureHelp = map[string]string{
	config.Punctuate: "Restore punctuation and capitalization",
	config.Split:     "Insert topic headings",
	config.Summarize: "Prepend a summary block",
	config.Cosmetic:  "Fix spelling and apply the cosmetic dictionary",
}

func newFeatureCmd(g *globalFlags, feature string) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   feature + " DOC...",
		Short: featureHelp[feature],
		Long: featureHelp[feature] + `.

Documents are paths relative to the document root. They are processed one
after another; a document that fails is reported and the rest continue.
An interrupt stops the batch once the current document is finished.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(g, cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			out := cmd.ErrOrStderr()
			var progress func(string, pipeline.Progress)
			if !quiet {
				progress = func(docID string, p pipeline.Progress) {
					fmt.Fprintf(out, "%s: %s iteration %d, %d/%d bytes\n", docID, p.Feature, p.Iteration, p.Consumed, p.Total)
				}
			}
			return runBatch(ctx, a, feature, args, progress, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print per-iteration progress")
	return cmd
}

func runBatch(ctx context.Context, a *app, feature string, docIDs []string, progress func(string, pipeline.Progress), out io.Writer) error {
	br, err := a.engine.ProcessBatch(ctx, docIDs, feature, progress)
	for _, res := range br.Results {
		if res.Error != "" {
			fmt.Fprintf(out, "FAIL %s: %s\n", res.DocID, res.Error)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d iterations, %d calls)\n", res.DocID, res.Iterations, res.Calls)
	}
	switch {
	case errors.Is(err, pipeline.ErrStopped):
		return fmt.Errorf("stopped after %d of %d documents", br.Succeeded+br.Failed, len(docIDs))
	case err != nil:
		return err
	case br.Failed > 0:
		return fmt.Errorf("%d of %d documents failed", br.Failed, len(docIDs))
	}
	return nil
}
