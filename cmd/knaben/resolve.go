package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"knaben/internal/streams"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve <series|movie> <id>",
		Short: "Resolve one title against the live search site",
		Example: `  knaben resolve series tt0944947:1:2
  knaben resolve movie tt0816692 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, ok := streams.ParseRequest(args[0], args[1])
			if !ok {
				return fmt.Errorf("unsupported id %q for type %q", args[1], args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			runCtx, cancel := context.WithTimeout(cmd.Context(), cfg.ResolveTimeout)
			defer cancel()
			res := newAggregator(cfg, log).Resolve(runCtx, req)

			if asJSON {
				return writeResultJSON(cmd.OutOrStdout(), res)
			}
			return writeResultTable(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the addon JSON response")
	return cmd
}

func writeResultJSON(w io.Writer, res streams.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string][]streams.Stream{"streams": res.Streams})
}

func writeResultTable(w io.Writer, res streams.Result) error {
	if res.Title == "" {
		_, err := fmt.Fprintln(w, "No metadata found")
		return err
	}
	fmt.Fprintf(w, "%s (%d queries, %s)\n", res.Label, res.QueriesRun, res.Duration.Round(time.Millisecond))
	if len(res.Streams) == 0 {
		_, err := fmt.Fprintln(w, "No streams found")
		return err
	}

	rows := make([][]string, 0, len(res.Streams))
	for i, s := range res.Streams {
		release, _, _ := strings.Cut(s.Title, "\n")
		size := "-"
		if s.BehaviorHints.VideoSize > 0 {
			size = formatBytes(s.BehaviorHints.VideoSize)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Name,
			strconv.Itoa(s.PeerCount),
			size,
			s.InfoHash,
			release,
		})
	}
	_, err := fmt.Fprintln(w, renderTable(
		[]string{"#", "Server", "Seeders", "Size", "Info Hash", "Release"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	))
	return err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
