package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/actusjson"
	"github.com/meenmo/actuslib/portfolio"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <cases.json>...",
		Short: "Simulate contract lifecycles and print the cash flows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(v)
			_, pool, market, err := loadCases(args)
			if err != nil {
				return err
			}
			attrs := make([]*actus.Attributes, 0, len(pool))
			for _, a := range pool {
				attrs = append(attrs, a)
			}
			runner := portfolio.NewRunner(market,
				portfolio.WithWorkers(v.GetInt("workers")),
				portfolio.WithLogger(log),
			)
			run, err := runner.Run(cmd.Context(), attrs)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				out := map[string]any{}
				for _, c := range run.Contracts {
					if c.Err != nil {
						out[c.ContractID] = map[string]any{"error": c.Err.Error()}
						continue
					}
					out[c.ContractID] = actusjson.ResultsOf(c.Result)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printRun(cmd, run)
			if failed := run.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d of %d contracts failed", len(failed), len(run.Contracts))
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "emit results as JSON instead of a table")
	return cmd
}

func printRun(cmd *cobra.Command, run *portfolio.RunResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONTRACT\tDATE\tEVENT\tPAYOFF\tNOTIONAL\tRATE\tACCRUED")
	for _, c := range run.Contracts {
		if c.Err != nil {
			fmt.Fprintf(w, "%s\t\tERROR\t%v\t\t\t\n", c.ContractID, c.Err)
			if c.Result == nil {
				continue
			}
		}
		for _, e := range c.Result.Events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.4f\t%.2f\n",
				c.ContractID, e.Time.Format("2006-01-02"), e.Kind,
				e.Payoff, e.StatePost.Notional, e.StatePost.NominalRate,
				e.StatePost.AccruedInterest)
		}
	}
	w.Flush()
}
