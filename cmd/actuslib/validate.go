package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/actuslib/actusjson"
	"github.com/meenmo/actuslib/contracts"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <cases.json>...",
		Short: "Simulate cases and compare against their reference results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(v)
			cases, pool, market, err := loadCases(args)
			if err != nil {
				return err
			}
			var failures int
			for _, tc := range cases {
				if len(tc.Results) == 0 {
					continue
				}
				attrs, err := tc.ToAttributes()
				if err != nil {
					return err
				}
				result, err := contracts.Simulate(attrs, pool, market)
				if err != nil {
					failures++
					log.Error().Str("contract_id", attrs.ContractID).Err(err).Msg("simulation failed")
					continue
				}
				diffs := actusjson.Compare(result, tc.Results)
				if len(diffs) == 0 {
					log.Info().Str("contract_id", attrs.ContractID).Msg("ok")
					continue
				}
				failures++
				for _, d := range diffs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", attrs.ContractID, d)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d cases disagree with reference results", failures)
			}
			return nil
		},
	}
}
