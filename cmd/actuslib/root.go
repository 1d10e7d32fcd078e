package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/actusjson"
	"github.com/meenmo/actuslib/observers"
	"github.com/meenmo/actuslib/portfolio"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "actuslib",
		Short:         "ACTUS contract simulation engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if cfg := v.GetString("config"); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			v.SetEnvPrefix("ACTUS")
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "optional config file (yaml/json/toml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().Int("workers", 4, "simulation worker pool size")

	root.AddCommand(newScheduleCmd(v))
	root.AddCommand(newSimulateCmd(v))
	root.AddCommand(newValidateCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

func newLogger(v *viper.Viper) zerolog.Logger {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return portfolio.NewLoggerWithLevel("actuslib", level)
}

// loadCases reads every case file given on the command line and pools the
// attributes so composites can resolve legs declared in sibling cases.
func loadCases(paths []string) ([]actusjson.TestCase, map[string]*actus.Attributes, observers.Market, error) {
	var all []actusjson.TestCase
	pool := map[string]*actus.Attributes{}
	var markets observers.Composite
	for _, path := range paths {
		cases, err := actusjson.LoadFile(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, tc := range cases {
			attrs, err := tc.ToAttributes()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s: case %s: %w", path, tc.Identifier, err)
			}
			pool[attrs.ContractID] = attrs
			obs, err := tc.Observer()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s: case %s: %w", path, tc.Identifier, err)
			}
			markets = append(markets, obs)
			all = append(all, tc)
		}
	}
	return all, pool, markets, nil
}
