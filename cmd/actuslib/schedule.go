package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/actuslib/contracts"
)

func newScheduleCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <cases.json>...",
		Short: "Print the pre-simulation event schedule of each contract",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, pool, market, err := loadCases(args)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CONTRACT\tDATE\tCALC DATE\tEVENT")
			for _, tc := range cases {
				attrs, err := tc.ToAttributes()
				if err != nil {
					return err
				}
				children, err := contracts.ResolveChildren(attrs, pool, market)
				if err != nil {
					return fmt.Errorf("contract %s: %w", attrs.ContractID, err)
				}
				contract, err := contracts.New(attrs, market, children)
				if err != nil {
					return fmt.Errorf("contract %s: %w", attrs.ContractID, err)
				}
				events, err := contract.Schedule()
				if err != nil {
					return fmt.Errorf("contract %s: %w", attrs.ContractID, err)
				}
				for _, e := range events {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						attrs.ContractID,
						e.Time.Format("2006-01-02"),
						e.CalculationTime.Format("2006-01-02"),
						e.Kind)
				}
			}
			return w.Flush()
		},
	}
}
