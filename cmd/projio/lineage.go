package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"projio/internal/ledger"
	"projio/internal/logger"
)

func newTrackCmd(open opener, jsonOutput *bool) *cobra.Command {
	var producer, kind, tag string
	cmd := &cobra.Command{
		Use:   "track <target>",
		Short: "Record which program produced a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			rec, err := e.IO.TrackProducer(args[0], producer, kind, tag)
			if err != nil {
				return err
			}
			if e.ConfigPath == "" {
				logger.Logger.Warnw("not inside a projio project, record is not persisted", "target", rec.Target)
			} else if err := e.IO.SaveLedger(); err != nil {
				return err
			}
			return print(*jsonOutput, rec, pterm.Success.Sprintf("tracked %s <- %s", rec.Target, rec.Producer))
		},
	}
	cmd.Flags().StringVar(&producer, "producer", "", "producing script or binary (default: this program)")
	cmd.Flags().StringVar(&kind, "kind", "", "kind of output, e.g. checkpoint")
	cmd.Flags().StringVar(&tag, "tag", "", "free-form label")
	return cmd
}

func newProducersCmd(open opener, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "producers <target>",
		Short: "List the recorded producers of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			records, err := e.IO.ProducersOf(args[0])
			if err != nil {
				return err
			}
			return print(*jsonOutput, records, formatRecords(records, func(r ledger.Record) string { return r.Producer }))
		},
	}
}

func newOutputsCmd(open opener, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs <producer>",
		Short: "List the files a producer was recorded writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			records, err := e.IO.OutputsOf(args[0])
			if err != nil {
				return err
			}
			return print(*jsonOutput, records, formatRecords(records, func(r ledger.Record) string { return r.Target }))
		},
	}
}

func formatRecords(records []ledger.Record, subject func(ledger.Record) string) string {
	if len(records) == 0 {
		return pterm.Info.Sprint("no records")
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s  %s", pterm.Gray(r.RecordedAt.Format("2006-01-02 15:04:05")), subject(r))
		if r.Kind != "" {
			fmt.Fprintf(&b, " %s", pterm.Cyan("["+r.Kind+"]"))
		}
		if r.Tag != "" {
			fmt.Fprintf(&b, " %s", pterm.Yellow(r.Tag))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
