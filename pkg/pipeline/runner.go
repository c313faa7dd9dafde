// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/filebot/pkg/report"
)

// 🎯 Operation is a unit of work the runner can execute
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🏃 Runner executes operations, optionally detached from the caller.
// The pipeline inside an operation stays sequential; async only moves
// the whole run off the calling goroutine.
type Runner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *Runner {
	return &Runner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes an operation
func (r *Runner) Run(ctx context.Context, op Operation) error {
	r.logger.Debug().Str("operation", op.Name()).Bool("async", r.async).Msg("running operation")
	if r.async {
		return r.runAsync(ctx, op)
	}
	return op.Execute(ctx)
}

// ⚡ runAsync runs an operation on its own goroutine, honoring context
// cancellation while waiting.
func (r *Runner) runAsync(ctx context.Context, op Operation) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("executing %s: %w", op.Name(), err)
		}
		return nil
	})
	return g.Wait()
}

// 📋 RunOperation wraps one orchestrator run as an Operation
type RunOperation struct {
	orchestrator *Orchestrator
	sources      []string
	result       *report.RunReport
}

// 🏭 NewRunOperation creates the operation for one source list
func NewRunOperation(o *Orchestrator, sources []string) *RunOperation {
	return &RunOperation{
		orchestrator: o,
		sources:      sources,
	}
}

// Name identifies the operation in logs
func (op *RunOperation) Name() string {
	return "run"
}

// Execute runs the pipeline and retains the report for the caller
func (op *RunOperation) Execute(ctx context.Context) error {
	rr, err := op.orchestrator.Run(ctx, op.sources)
	op.result = rr
	return err
}

// Result returns the run report after Execute completed
func (op *RunOperation) Result() *report.RunReport {
	return op.result
}
