package main

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/vecprov/internal/config"
	"github.com/kailas-cloud/vecprov/internal/db"
)

func TestNewConnector_Drivers(t *testing.T) {
	for _, driver := range []string{config.DriverMilvus, config.DriverRedis, config.DriverValkey} {
		t.Run(driver, func(t *testing.T) {
			connect, err := newConnector(config.StoreConfig{Driver: driver, Host: "localhost", Port: 1}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if connect == nil {
				t.Fatal("expected connector")
			}
		})
	}
}

func TestNewConnector_UnknownDriver(t *testing.T) {
	if _, err := newConnector(config.StoreConfig{Driver: "qdrant"}, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestRedisConfig(t *testing.T) {
	got := redisConfig(config.StoreConfig{
		Host: "cache", Port: 6380, User: "app", Password: "pw", DB: 2, KeyPrefix: "prov",
	}, nil)

	if len(got.Addrs) != 1 || got.Addrs[0] != "cache:6380" {
		t.Errorf("addrs = %v", got.Addrs)
	}
	if got.Username != "app" || got.Password != "pw" || got.DB != 2 || got.KeyPrefix != "prov" {
		t.Errorf("config = %+v", got)
	}
}

func TestWithTimeout_BoundsAttempt(t *testing.T) {
	var deadline time.Time
	var ok bool
	connect := func(ctx context.Context) (db.Store, error) {
		deadline, ok = ctx.Deadline()
		return nil, nil
	}

	before := time.Now()
	_, _ = withTimeout(connect, config.StoreConfig{ConnectTimeoutSec: 3})(context.Background())
	after := time.Now()

	if !ok {
		t.Fatal("expected a deadline on the attempt context")
	}
	if deadline.Before(before.Add(3*time.Second)) || deadline.After(after.Add(3*time.Second)) {
		t.Errorf("deadline %v not within 3s of the call [%v, %v]", deadline, before, after)
	}
}

func TestWithTimeout_Disabled(t *testing.T) {
	connect := func(ctx context.Context) (db.Store, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Error("unexpected deadline")
		}
		return nil, nil
	}

	_, _ = withTimeout(connect, config.StoreConfig{})(context.Background())
}
