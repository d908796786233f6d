// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"html/template"
	"time"
	"unicode/utf8"

	"github.com/olegiv/folio/internal/model"
)

// previewLength bounds the message excerpt quoted in the auto-reply.
const previewLength = 150

var adminTmpl = template.Must(template.New("admin").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #3b82f6;">New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<h3>Message</h3>
<p style="white-space: pre-wrap;">{{.Message}}</p>
<p style="font-size: 14px; color: #64748b;">
<strong>Contact ID:</strong> {{.ID}}<br>
<strong>Submitted:</strong> {{.Submitted}}{{if .Country}}<br>
<strong>Country:</strong> {{.Country}}{{end}}
</p>
</div>
`))

var replyTmpl = template.Must(template.New("reply").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #3b82f6;">Thank you for reaching out!</h2>
<p>Hi {{.Name}},</p>
<p>Thank you for contacting me through my portfolio website. I've received your message about "{{.Subject}}" and I'll get back to you as soon as possible.</p>
<blockquote style="border-left: 4px solid #3b82f6; padding-left: 12px; font-style: italic;">{{.Preview}}</blockquote>
<p style="color: #64748b; font-size: 14px;">This is an automated response. Please do not reply to this email.</p>
</div>
`))

type contactView struct {
	model.Contact
	Submitted string
	Preview   string
}

// AdminNotification renders the message telling the site owner about c.
func AdminNotification(to string, c model.Contact) (Message, error) {
	body, err := render(adminTmpl, c)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, ReplyTo: c.Email, Subject: "Portfolio Contact: " + c.Subject, HTML: body}, nil
}

// AutoReply renders the acknowledgement sent back to the sender of c.
func AutoReply(c model.Contact) (Message, error) {
	body, err := render(replyTmpl, c)
	if err != nil {
		return Message{}, err
	}
	return Message{To: c.Email, Subject: "Thank you for contacting me!", HTML: body}, nil
}

func render(t *template.Template, c model.Contact) (string, error) {
	view := contactView{
		Contact:   c,
		Submitted: c.CreatedAt.UTC().Format(time.RFC1123),
		Preview:   preview(c.Message),
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	return string([]rune(s)[:previewLength]) + "..."
}
