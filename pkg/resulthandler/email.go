/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package resulthandler

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
	"k8s.io/klog/v2"

	"github.com/AMD-AGI/Primus-Batch/pkg/config"
)

// EmailHandler mails a completion summary through SMTP.
type EmailHandler struct {
	enabled bool
	host    string
	port    int
	user    string
	pass    string
	from    string
	to      []string
}

func NewEmailHandler() *EmailHandler {
	return &EmailHandler{
		enabled: config.IsEmailEnable(),
		host:    config.GetEmailSmtpHost(),
		port:    config.GetEmailSmtpPort(),
		user:    config.GetEmailUser(),
		pass:    config.GetEmailPassword(),
		from:    config.GetEmailFrom(),
		to:      config.GetEmailTo(),
	}
}

func (h *EmailHandler) Name() string {
	return "email"
}

func (h *EmailHandler) Enabled(completion *Completion) bool {
	return h.enabled && h.host != "" && len(h.to) > 0
}

func (h *EmailHandler) Handle(ctx context.Context, completion *Completion) Outcome {
	batch := completion.Batch
	m := gomail.NewMessage()
	m.SetHeader("From", h.from)
	m.SetHeader("To", h.to...)
	m.SetHeader("Subject", fmt.Sprintf("Batch %s completed", batch.ID))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Batch <b>%s</b> (model %s) completed.</p>"+
			"<p>Requests: %d total, %d completed, %d failed.</p>"+
			"<p>Output file: %s</p>",
		batch.ID, batch.Model,
		batch.RequestCounts.Total, batch.RequestCounts.Completed, batch.RequestCounts.Failed,
		batch.OutputFileID))

	d := gomail.NewDialer(h.host, h.port, h.user, h.pass)
	if err := d.DialAndSend(m); err != nil {
		klog.ErrorS(err, "failed to send completion email", "batchId", batch.ID)
		return OutcomeRetryable
	}
	return OutcomeOk
}
