/*
Copyright 2025 The llm-d Authors

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

// Package logging wires the process-wide logr logger used by the lottery.
// Components never construct loggers themselves: they read the logger from the
// context with ctrl.LoggerFrom(ctx), which falls back to ctrl.Log.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Verbosity levels for logger.V(...).
const (
	DEBUG = 1
	TRACE = 2
)

// Options controls how NewLogger builds the zap backend.
type Options struct {
	// Development enables console encoding and stack traces on warnings.
	Development bool
	// Level is the maximum verbosity that is emitted (0 = info only).
	Level int
	// Output defaults to stderr when nil.
	Output io.Writer
}

// NewLogger builds a zap-backed logr.Logger and installs it as the
// controller-runtime global logger.
func NewLogger(opts Options) logr.Logger {
	zapOpts := []zap.Opts{
		zap.UseDevMode(opts.Development),
		zap.Level(zapcore.Level(-opts.Level)),
		zap.RawZapOpts(uberzap.AddCaller()),
	}
	if opts.Output != nil {
		zapOpts = append(zapOpts, zap.WriteTo(opts.Output))
	}
	logger := zap.New(zapOpts...)
	ctrl.SetLogger(logger)
	return logger
}

// NewTestLogger installs a development logger writing to the ginkgo writer so
// output is only shown for failing specs.
func NewTestLogger() logr.Logger {
	return NewLogger(Options{
		Development: true,
		Level:       TRACE,
		Output:      ginkgo.GinkgoWriter,
	})
}
