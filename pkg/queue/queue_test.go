package queue_test

import (
	"testing"

	"github.com/yeisme/swft/pkg/queue"
)

// TestWatermillMessageEnvelope 信封经 watermill 消息往返后负载与元数据一致.
func TestWatermillMessageEnvelope(t *testing.T) {
	payload := queue.ShareStoredPayload{
		Share: queue.ShareRef{
			Link:        "demo",
			StorageName: "demo.txt",
			Size:        42,
		},
		Source: "upload",
	}

	msg, err := queue.NewWatermillMessage(
		queue.TopicShareStored, payload,
		queue.WithProducer("swft"),
		queue.WithTraceID("trace-1"),
	)
	if err != nil {
		t.Fatalf("NewWatermillMessage: %v", err)
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicShareStored {
		t.Errorf("metadata topic = %q, want %q", got, queue.TopicShareStored)
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-1" {
		t.Errorf("metadata trace_id = %q, want %q", got, "trace-1")
	}

	env, err := queue.ParseWatermillMessage[queue.ShareStoredPayload](msg)
	if err != nil {
		t.Fatalf("ParseWatermillMessage: %v", err)
	}

	if env.Header.Topic != queue.TopicShareStored {
		t.Errorf("header topic = %q, want %q", env.Header.Topic, queue.TopicShareStored)
	}

	if env.Header.Version != queue.PayloadVersionV1 {
		t.Errorf("header version = %q, want %q", env.Header.Version, queue.PayloadVersionV1)
	}

	if env.Payload.Share.Link != "demo" || env.Payload.Share.Size != 42 {
		t.Errorf("payload mismatch: %+v", env.Payload)
	}

	if env.Payload.Source != "upload" {
		t.Errorf("source = %q, want %q", env.Payload.Source, "upload")
	}
}
