/*
Copyright 2025 The llm-d Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/llm-d/parking-lottery/internal/logging"
)

const envPrefix = "LOTTERY"

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("lottery", pflag.ContinueOnError)
	flags.String(flagConfig, "", "Path to the ConfigMap manifest holding the garage layout and the roster.")
	flags.String(flagLottery, "", "Path to a ParkingLottery manifest. Its spec provides defaults for the flags below.")
	flags.Int64(flagSeed, 0, "Seed of the random source.")
	flags.Int(flagMaxDraws, 0, "Stop after this many draws. 0 means one draw per apartment.")
	flags.Bool(flagBalance, false, "Spread simple apartments over floor/side groups.")
	flags.Bool(flagSurplus, true, "Let simple apartments take extended spots nobody needs once normal spots run out.")
	flags.String(flagMetricsOut, "", "Write session metrics in Prometheus text format to this file.")
	flags.Bool(flagDevelopment, false, "Use development logging (console encoder).")
	flags.Int(flagVerbosity, 0, "Log verbosity (1 = debug, 2 = trace).")
	return flags
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

func main() {
	flags := newFlagSet()
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	v, err := newViper(flags)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger := logging.NewLogger(logging.Options{
		Development: v.GetBool(flagDevelopment),
		Level:       v.GetInt(flagVerbosity),
	})
	ctx := ctrl.LoggerInto(context.Background(), logger)

	if err := run(ctx, v, os.Stdout); err != nil {
		logger.Error(err, "Lottery failed")
		os.Exit(1)
	}
}
