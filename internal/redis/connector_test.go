package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validOptions().Validate())

	for name, mutate := range map[string]func(*ConnectOptions){
		"addr":      func(o *ConnectOptions) { o.Addr = "" },
		"connect":   func(o *ConnectOptions) { o.ConnectTimeout = 0 },
		"retry":     func(o *ConnectOptions) { o.RetryInterval = 0 },
		"max wait":  func(o *ConnectOptions) { o.MaxWait = -1 },
		"ping":      func(o *ConnectOptions) { o.PingTimeout = 0 },
		"threshold": func(o *ConnectOptions) { o.WarnThreshold = -1 },
	} {
		o := validOptions()
		mutate(&o)
		assert.Error(t, o.Validate(), name)
	}
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 4*time.Second, backoff(2*time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, backoff(8*time.Second, 10*time.Second))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             2,
		RedisConnectTimeout: time.Second,
		RedisWarnThreshold:  3,
	}
	o := OptionsFromConfig(cfg)
	assert.Equal(t, "redis:6379", o.Addr)
	assert.Equal(t, 2, o.RedisDB)
	assert.Equal(t, time.Second, o.ConnectTimeout)
	assert.Equal(t, 3, o.WarnThreshold)
}

func TestNewGivesUpOnUnreachableServer(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.New("error", false))

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewStopsOnCancel(t *testing.T) {
	opts := validOptions()
	opts.ConnectTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := New(ctx, opts, logger.New("error", false))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
