package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"censusbq/internal/modkit/module"
	perr "censusbq/internal/platform/errors"
	historydom "censusbq/internal/services/history/domain"

	"github.com/spf13/cobra"
)

type historyFlags struct {
	file   string
	status string
	limit  int
	json   bool
}

func newHistoryCmd() *cobra.Command {
	var f historyFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the upload ledger, newest first",
		Example: `  censusbq history
  censusbq history --file 20140101
  censusbq history --status FAILED --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.file, "file", "", "only entries for this file name")
	cmd.Flags().StringVar(&f.status, "status", "", "only STARTED, COMPLETED or FAILED entries")
	cmd.Flags().IntVar(&f.limit, "limit", 50, "maximum rows")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON instead of a table")
	return cmd
}

func runHistory(ctx context.Context, out io.Writer, f historyFlags) error {
	rt, err := openRuntime(ctx, "history")
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	hist, err := rt.history(ctx)
	if err != nil {
		return err
	}
	q, ok := module.PortsOf[historydom.QueryPort](hist)
	if !ok {
		return perr.InvalidArgf("upload ledger is disabled (CORE_HISTORY_BACKEND=%s)", hist.Backend())
	}
	rows, err := q.List(ctx, historydom.Filter{
		FileName: f.file,
		Status:   historydom.Status(f.status),
		Limit:    f.limit,
	})
	if err != nil {
		return err
	}

	if f.json {
		if rows == nil {
			rows = []historydom.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return printHistory(out, rows)
}

func printHistory(out io.Writer, rows []historydom.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tFILE\tTYPE\tSTATUS\tSIZE_MB\tFILE_DATE\tERROR")
	for _, e := range rows {
		date := "-"
		if e.FileDate != nil {
			date = e.FileDate.UTC().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			e.RecordedAt.UTC().Format(time.RFC3339), e.FileName, e.UploadType, e.Status, e.SizeMB, date, e.Error)
	}
	return tw.Flush()
}
