// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config binds the two factor-engine knobs to flags and the
// environment. Nothing is persisted: the solver has no state beyond a
// single invocation.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getamis/modsolve/factor"
)

const (
	// FlagECMWorkers is the worker-pool size for the ECM racing stage. The
	// pool always keeps worker 0 for the wheel divisor; values land in the
	// small [3, 6] band where extra curves stop paying for themselves.
	FlagECMWorkers = "ecm-workers"
	// FlagECMCurveLimit caps the curves a single ECM worker tries per
	// activation before resyncing with the shared state.
	FlagECMCurveLimit = "ecm-curve-limit"

	envPrefix = "modsolve"

	minWorkers = 3
	maxWorkers = 6
)

// AddFlags registers the factor-engine flags on cmd, with the defaults the
// engine would use anyway.
func AddFlags(cmd *cobra.Command) {
	defaults := factor.DefaultOptions()
	cmd.Flags().Int(FlagECMWorkers, defaults.Workers, "ECM worker pool size, clamped to [3,6]")
	cmd.Flags().Int(FlagECMCurveLimit, defaults.CurveLimit, "elliptic curves per ECM worker activation")
}

// FactorOptions resolves the factor-engine options from the bound flags and
// the MODSOLVE_* environment, clamping the pool size into its valid band.
func FactorOptions(cmd *cobra.Command) (factor.Options, error) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return factor.Options{}, err
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	opts := factor.Options{
		Workers:    viper.GetInt(FlagECMWorkers),
		CurveLimit: viper.GetInt(FlagECMCurveLimit),
	}

	if opts.Workers < minWorkers {
		opts.Workers = minWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.CurveLimit < 1 {
		opts.CurveLimit = factor.DefaultOptions().CurveLimit
	}
	return opts, nil
}
