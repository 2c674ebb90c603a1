// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package notify publishes outbound mail onto the durable send-mail channel.
//
// Publisher owns the broker connection and provisions the stream on
// connect. Dispatcher runs each publish as a detached task so that callers
// never wait on, or learn about, the broker.
package notify

// MailSubject is the channel (stream and subject) consumed by the mail service.
const MailSubject = "send-mail"

// Mail is the message body published to MailSubject.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
