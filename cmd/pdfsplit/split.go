package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jadabouassaly/PDF-Splitting/internal/api"
	"github.com/jadabouassaly/PDF-Splitting/internal/document"
	"github.com/jadabouassaly/PDF-Splitting/internal/splitter"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a PDF locally, without a server",
}

// newLocalSplitCmd builds the local split command for one variant.
func newLocalSplitCmd(variant splitter.Variant, short string) *cobra.Command {
	var (
		outPath string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <file.pdf>", variant),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			svc := splitter.NewService(document.NewPDFSource(), document.ZipSink{}, logger)

			if dryRun {
				out, err := svc.Report(cmd.Context(), variant, data)
				if err != nil {
					return err
				}
				return api.Output(out)
			}

			out, err := svc.Split(cmd.Context(), variant, data)
			if err != nil {
				return err
			}

			dest := outPath
			if dest == "" {
				dest = out.DownloadName
			}
			if err := os.WriteFile(dest, out.Archive, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}

			if err := api.Output(out); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d groups, %d pages)\n", dest, len(out.Groups), out.PageCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output zip path (default: variant download name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report grouping only, write no archive")
	return cmd
}

func init() {
	splitCmd.AddCommand(
		newLocalSplitCmd(splitter.CallList,
			"Split a call list PDF by Depot ID"),
		newLocalSplitCmd(splitter.GroupList,
			"Split a group list PDF by Shipping Point"),
	)
	rootCmd.AddCommand(splitCmd)
}
