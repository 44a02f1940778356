package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/zulin-next/internal/config"
)

func TestNewHTTPServiceAppliesServerConfig(t *testing.T) {
	handler := http.NewServeMux()
	svc := NewHTTPService(config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            "8090",
		ReadTimeoutSec:  15,
		WriteTimeoutSec: 30,
	}, handler)

	if svc.server.Addr != "127.0.0.1:8090" {
		t.Fatalf("addr want 127.0.0.1:8090 got %s", svc.server.Addr)
	}
	if svc.server.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout want 15s got %v", svc.server.ReadTimeout)
	}
	if svc.server.WriteTimeout != 30*time.Second {
		t.Fatalf("write timeout want 30s got %v", svc.server.WriteTimeout)
	}

	// 超时为 0 时保持不限
	svc = NewHTTPService(config.ServerConfig{Host: "0.0.0.0", Port: "8080"}, handler)
	if svc.server.ReadTimeout != 0 || svc.server.WriteTimeout != 0 {
		t.Fatalf("zero config should leave timeouts unset, got read=%v write=%v",
			svc.server.ReadTimeout, svc.server.WriteTimeout)
	}
	if svc.Name() != "http" {
		t.Fatalf("name want http got %s", svc.Name())
	}
}
