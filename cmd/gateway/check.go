package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Jouiet/VocalIA-sub010/internal/cfg"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which providers have client credentials",
		Long: `Resolve client credentials for every provider without contacting
the providers. With --strict the command fails when any provider is
unconfigured.`,
		RunE: runCheck,
	}
	cmd.Flags().Bool("strict", false, "fail if any provider is missing credentials")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	config, err := cfg.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	gw, closeAll, err := openGateway(cmd.Context(), config)
	if err != nil {
		return err
	}
	defer closeAll()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tSTATUS\tDETAIL")

	missing := 0
	for _, st := range gw.Status(cmd.Context()) {
		status := "ok"
		if !st.Configured {
			status = "missing"
			missing++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", st.ID, status, st.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && missing > 0 {
		return fmt.Errorf("%d provider(s) missing credentials", missing)
	}
	return nil
}
