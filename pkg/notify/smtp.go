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

package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// DefaultSubject is used when the config leaves the subject empty
const DefaultSubject = "filebot - file processing report"

// 🔧 SMTPOptions configures the mail transport
type SMTPOptions struct {
	Host     string
	Port     int
	StartTLS bool
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// 📧 SMTPNotifier sends the report by email
type SMTPNotifier struct {
	opts SMTPOptions
}

// 🏭 NewSMTPNotifier creates a notifier for the given transport options
func NewSMTPNotifier(opts SMTPOptions) *SMTPNotifier {
	if opts.Subject == "" {
		opts.Subject = DefaultSubject
	}
	return &SMTPNotifier{opts: opts}
}

// body renders the plain-text message for a run
func (n *SMTPNotifier) body(reportPath string, summary Summary) string {
	return fmt.Sprintf(
		"filebot has completed processing.\n\n"+
			"Sources configured: %d\n"+
			"Files completed: %d\n"+
			"Files failed: %d\n"+
			"Report: %s\n",
		summary.Sources, summary.Completed, summary.Failed, filepath.Base(reportPath),
	)
}

// Notify sends one message with the report attached
func (n *SMTPNotifier) Notify(ctx context.Context, reportPath string, summary Summary) error {
	logger := zerolog.Ctx(ctx)

	if len(n.opts.To) == 0 {
		return &Error{Reason: "no recipients configured"}
	}
	if _, err := os.Stat(reportPath); err != nil {
		return &Error{Reason: "reading attachment", Err: err}
	}

	msg := mail.NewMsg()
	if err := msg.From(n.opts.From); err != nil {
		return &Error{Reason: "invalid from address", Err: err}
	}
	if err := msg.To(n.opts.To...); err != nil {
		return &Error{Reason: "invalid recipient address", Err: err}
	}
	msg.Subject(n.opts.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.body(reportPath, summary))
	msg.AttachFile(reportPath)

	clientOpts := []mail.Option{
		mail.WithPort(n.opts.Port),
	}
	if n.opts.StartTLS {
		clientOpts = append(clientOpts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		clientOpts = append(clientOpts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if n.opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.opts.Username),
			mail.WithPassword(n.opts.Password),
		)
	}

	client, err := mail.NewClient(n.opts.Host, clientOpts...)
	if err != nil {
		return &Error{Reason: "creating smtp client", Err: err}
	}

	logger.Info().Str("host", n.opts.Host).Int("port", n.opts.Port).Strs("to", n.opts.To).Msg("sending notification")
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &Error{Reason: "sending message", Err: err}
	}

	logger.Info().Msg("notification sent")
	return nil
}
