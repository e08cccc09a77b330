// Package httpwriter posts remote write actions to an HTTP endpoint.
package httpwriter

import (
	"context"

	"github.com/agentstation/shelf/internal/transport"
	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// Writer implements writequeue.Writer with a JSON POST per action.
type Writer struct {
	url    string
	client *transport.Client
}

// New creates a writer posting to url. A nil client means no authentication.
func New(url string, client *transport.Client) *Writer {
	if client == nil {
		client = transport.New(&transport.NoAuth{})
	}
	return &Writer{url: url, client: client}
}

// Write implements writequeue.Writer. Only the status code is inspected.
func (w *Writer) Write(ctx context.Context, action writequeue.Action) error {
	resp, err := w.client.PostJSON(ctx, w.url, action)
	if err != nil {
		return errors.WrapResource("post", "action", action.ID, err)
	}
	return transport.CheckResponse(resp)
}
