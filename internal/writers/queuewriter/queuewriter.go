// Package queuewriter sends remote write actions to an Azure Storage queue,
// where a downstream worker applies them to the system of record.
package queuewriter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"github.com/agentstation/shelf/pkg/errors"
	"github.com/agentstation/shelf/pkg/writequeue"
)

// queueClient is the subset of *azqueue.QueueClient the writer needs.
type queueClient interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// Writer implements writequeue.Writer on an Azure queue.
type Writer struct {
	queue queueClient
	name  string
}

// New connects to queue using an Azure Storage connection string. The SDK's
// own retries are disabled; each action gets one attempt.
func New(connStr, queue string) (*Writer, error) {
	opts := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: -1,
				TryTimeout: 30 * time.Second,
			},
		},
	}
	client, err := azqueue.NewQueueClientFromConnectionString(connStr, queue, &opts)
	if err != nil {
		return nil, errors.NewConfigError("azqueue", "invalid connection string", err)
	}
	return &Writer{queue: client, name: queue}, nil
}

// Write implements writequeue.Writer.
func (w *Writer) Write(ctx context.Context, action writequeue.Action) error {
	data, err := json.Marshal(action)
	if err != nil {
		return errors.WrapParse("json", "action", err)
	}
	if _, err := w.queue.EnqueueMessage(ctx, string(data), nil); err != nil {
		return errors.WrapResource("enqueue", "queue", w.name, err)
	}
	return nil
}
