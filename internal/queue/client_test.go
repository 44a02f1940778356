package queue

import (
	"testing"
	"time"

	"github.com/zulin-next/internal/config"
)

func TestClientDisabledIsNoop(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("nil config client should be disabled")
	}

	// 未启用时投递静默跳过，不产生错误
	if err := client.EnqueueTimeoutCancel(1, 30*time.Minute); err != nil {
		t.Fatalf("disabled enqueue timeout cancel want nil got %v", err)
	}
	client.EnqueueStatusNotify(1, "paid")

	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}

	client, err = NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled config client should be disabled")
	}
}
