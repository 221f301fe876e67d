package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/redis/go-redis/v9"
)

type fakePinger struct {
	failures int
	calls    int
}

func (f *fakePinger) Ping(ctx context.Context) *redis.StatusCmd {
	f.calls++
	if f.calls <= f.failures {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	return redis.NewStatusResult("PONG", nil)
}

func testOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "localhost:6379",
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestWaitReadyRetriesUntilSuccess(t *testing.T) {
	p := &fakePinger{failures: 2}

	if err := waitReady(context.Background(), p, testOptions(), logger.Nop()); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if p.calls != 3 {
		t.Errorf("ping calls = %d, want 3", p.calls)
	}
}

func TestWaitReadyTimesOut(t *testing.T) {
	p := &fakePinger{failures: 1 << 30}
	opts := testOptions()
	opts.ConnectTimeout = 30 * time.Millisecond

	err := waitReady(context.Background(), p, opts, logger.Nop())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("waitReady() error = %v, want ErrUnreachable", err)
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}},
		{name: "missing addr", mutate: func(o *ConnectOptions) { o.Addr = "" }, wantErr: true},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			err := opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
