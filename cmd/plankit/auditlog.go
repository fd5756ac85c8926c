package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent audit events",
	Args:  cobra.NoArgs,
	RunE:  runAudit,
}

var auditLimit int

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "n", "n", 20, "Number of events to list (0 for all)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if !app.audit.Enabled() {
		return fmt.Errorf("audit log is disabled in %s", app.ws.ConfigPath)
	}
	events, err := app.audit.Recent(auditLimit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tACTOR\tTYPE\tPAYLOAD")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Time.Format("2006-01-02 15:04:05"), e.Actor, e.Type, e.Payload)
	}
	return w.Flush()
}
