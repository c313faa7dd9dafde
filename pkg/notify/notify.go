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

// Package notify sends the run report to configured recipients.
package notify

import (
	"context"
	"fmt"
)

// ❌ Error indicates a notification could not be delivered. Delivery
// failure is never fatal to a run: the downloaded files and the report
// already exist independent of it.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notifying: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("notifying: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 📊 Summary carries the run counts rendered into the message body
type Summary struct {
	Sources   int
	Completed int
	Failed    int
}

// 🔌 Notifier delivers a finished run's report
type Notifier interface {
	// Notify sends a message with the report at reportPath attached.
	Notify(ctx context.Context, reportPath string, summary Summary) error
}
