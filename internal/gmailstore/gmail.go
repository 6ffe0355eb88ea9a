// Package gmailstore is the message-store collaborator: it answers
// "search messages matching this filter" with notification values the bank
// parsers can consume.
package gmailstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/bankparser"
)

// MessageStore returns every notification matching a sender/subject filter.
type MessageStore interface {
	Search(query string) ([]bankparser.Notification, error)
}

// Gmail implements MessageStore over the Gmail API for a single mailbox.
type Gmail struct {
	ctx context.Context
	svc *gmail.Service
}

func NewGmail(ctx context.Context, credentialsJSON string) (*Gmail, error) {
	svc, err := gmail.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(gmail.GmailReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("Error creating gmail client: %s", err.Error())
	}

	return &Gmail{ctx: ctx, svc: svc}, nil
}

func (g *Gmail) Search(query string) ([]bankparser.Notification, error) {
	var notifications []bankparser.Notification

	pageToken := ""
	for {
		call := g.svc.Users.Messages.List("me").Q(query).Context(g.ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("Error searching messages for %q: %s", query, err.Error())
		}

		for _, m := range resp.Messages {
			msg, err := g.svc.Users.Messages.Get("me", m.Id).Format("full").Context(g.ctx).Do()
			if err != nil {
				return nil, fmt.Errorf("Error fetching message %s: %s", m.Id, err.Error())
			}
			notifications = append(notifications, toNotification(msg))
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return notifications, nil
}

func toNotification(msg *gmail.Message) bankparser.Notification {
	n := bankparser.Notification{
		Date: time.UnixMilli(msg.InternalDate),
	}

	if msg.Payload == nil {
		return n
	}

	for _, h := range msg.Payload.Headers {
		if h.Name == "Subject" {
			n.Subject = h.Value
			break
		}
	}

	collectBodies(msg.Payload, &n)

	// Some alerts arrive without a multipart body; treat a lone body as
	// both renderings so every parser sees something.
	if n.Body == "" {
		n.Body = n.PlainBody
	}
	if n.PlainBody == "" {
		n.PlainBody = n.Body
	}

	return n
}

func collectBodies(part *gmail.MessagePart, n *bankparser.Notification) {
	if part == nil {
		return
	}

	if part.Body != nil && part.Body.Data != "" {
		switch part.MimeType {
		case "text/html":
			if n.Body == "" {
				n.Body = decodeBody(part.Body.Data)
			}
		case "text/plain":
			if n.PlainBody == "" {
				n.PlainBody = decodeBody(part.Body.Data)
			}
		}
	}

	for _, p := range part.Parts {
		collectBodies(p, n)
	}
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
