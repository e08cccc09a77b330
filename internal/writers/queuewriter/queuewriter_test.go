package queuewriter

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/shelf/pkg/writequeue"
)

type fakeQueue struct {
	messages []string
	err      error
}

func (f *fakeQueue) EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	if f.err != nil {
		return azqueue.EnqueueMessagesResponse{}, f.err
	}
	f.messages = append(f.messages, content)
	return azqueue.EnqueueMessagesResponse{}, nil
}

func TestWriter_Enqueues(t *testing.T) {
	fq := &fakeQueue{}
	w := &Writer{queue: fq, name: "actions"}

	action := writequeue.NewAction(writequeue.KindAdd, "42", map[string]any{"name": "Engate C", "sku": "AX-9"})
	require.NoError(t, w.Write(context.Background(), action))
	require.Len(t, fq.messages, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(fq.messages[0]), &payload))
	assert.Equal(t, "add", payload["action"])
	assert.Equal(t, "42", payload["id"])
	assert.Equal(t, "Engate C", payload["name"])
}

func TestWriter_EnqueueFailure(t *testing.T) {
	w := &Writer{queue: &fakeQueue{err: stderrors.New("queue unavailable")}, name: "actions"}
	err := w.Write(context.Background(), writequeue.NewAction(writequeue.KindEdit, "1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue unavailable")
}

func TestNew_BadConnectionString(t *testing.T) {
	_, err := New("not-a-connection-string", "actions")
	assert.Error(t, err)
}

func TestNew_Devstore(t *testing.T) {
	conn := "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
		"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
		"QueueEndpoint=http://127.0.0.1:10001/devstoreaccount1;"
	w, err := New(conn, "actions")
	require.NoError(t, err)
	assert.Equal(t, "actions", w.name)
}
