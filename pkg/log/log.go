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

// Package log provides user-facing console feedback for pipeline runs,
// mirrored to zerolog for machine-readable logs.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // base width for file name
	stageWidth  = 12 // width for stage name
	statusWidth = 12 // width for status text
)

// 🎯 StageEvent represents one stage transition for a single file
type StageEvent struct {
	Name   string // Current file name
	Stage  string // Stage that ran (download/rename/sort/report/notify)
	Status string // Resulting status
	Failed bool   // Whether the stage failed
	Reason string // Failure reason, if any
}

// 🎯 UserLogger handles structured logging with console output
type UserLogger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new user logger
func New(console io.Writer, zlog zerolog.Logger) *UserLogger {
	return &UserLogger{
		zlog:    zlog,
		console: console,
	}
}

// 📝 formatStageEvent formats a stage transition for display
func (l *UserLogger) formatStageEvent(ev StageEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	if ev.Failed {
		symbol = '✗'
		symbolColor = color.FgRed
	} else {
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, ev.Name),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", stageWidth, ev.Stage)),
		fmt.Sprintf("%-*s", statusWidth, ev.Status))

	if ev.Failed && ev.Reason != "" {
		line += " " + color.New(color.FgRed).Sprint(ev.Reason)
	}
	return line
}

// 📝 LogStageEvent logs a stage transition
func (l *UserLogger) LogStageEvent(ev StageEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatStageEvent(ev))

	zev := l.zlog.Info()
	if ev.Failed {
		zev = l.zlog.Error()
	}
	zev.
		Str("file", ev.Name).
		Str("stage", ev.Stage).
		Str("status", ev.Status).
		Str("reason", ev.Reason).
		Msg("stage transition")
}

// 📝 Header logs a run header
func (l *UserLogger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("filebot")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *UserLogger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Success.WithWriter(l.console).Println(msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *UserLogger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Warning.WithWriter(l.console).Println(msg)
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *UserLogger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Error.WithWriter(l.console).Println(msg)
	l.zlog.Error().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *UserLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	pterm.Info.WithWriter(l.console).Println(msg)
	l.zlog.Info().Msg(msg)
}
