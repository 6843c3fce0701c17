package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("connection refused") }

func TestCheck(t *testing.T) {
	cases := []struct {
		name       string
		store      func(context.Context) error
		cache      func(context.Context) error
		wantStatus string
		wantCache  string
	}{
		{"all ok", ok, ok, StatusReady, "ok"},
		{"memory cache", ok, nil, StatusReady, "disabled"},
		{"cache down", ok, fail, StatusDegraded, "error"},
		{"store down", fail, ok, StatusUnavailable, "ok"},
		{"no store", nil, ok, StatusUnavailable, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(Deps{StoreCheck: tc.store, CacheCheck: tc.cache, CacheKind: "memory", Version: "1.2.3"})
			resp := svc.Check(context.Background())
			assert.Equal(t, tc.wantStatus, resp.Status)
			assert.Equal(t, tc.wantCache, resp.Components["cache"].Status)
			assert.Equal(t, "1.2.3", resp.Version)
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}

func TestCheckRespectsTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	svc := NewService(Deps{StoreCheck: slow, Timeout: 20 * time.Millisecond})
	resp := svc.Check(context.Background())
	assert.Equal(t, StatusUnavailable, resp.Status)
	assert.Contains(t, resp.Components["store"].Message, "deadline exceeded")
}
