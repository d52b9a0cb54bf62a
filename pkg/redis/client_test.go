package redis

import (
	"testing"

	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
)

func TestBuildKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.RateLimitKey("login:ip:1.2.3.4"); got != "gt:rate_limit:login:ip:1.2.3.4" {
		t.Fatalf("unexpected rate limit key %q", got)
	}
	if got := c.AccessSessionKey("abc"); got != "gt:session:access:abc" {
		t.Fatalf("unexpected session key %q", got)
	}
	if got := c.buildKey("a", "", "b"); got != "gt:a:b" {
		t.Fatalf("empty parts should be skipped, got %q", got)
	}
}

func TestOptionsFromConfigRequiresURLOrAddr(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 5})
	if err != nil {
		t.Fatalf("optionsFromConfig: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("pool size not applied, got %d", opts.PoolSize)
	}
}
