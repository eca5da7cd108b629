package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/favlauncher/internal/config"
	"github.com/MrSnakeDoc/favlauncher/internal/logger"
)

// ConnectOptions defines Redis connection retry behavior.
type ConnectOptions struct {
	Addr           string        // Redis address (ex: "localhost:6379")
	User           string        // Optional username
	Password       string        // Optional password
	RedisDB        int           // Redis DB number
	DialTimeout    time.Duration // Redis dial timeout
	ReadTimeout    time.Duration // Redis read timeout
	WriteTimeout   time.Duration // Redis write timeout
	PoolSize       int           // Redis connection pool size
	ConnectTimeout time.Duration // Total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	MaxWait        time.Duration // max wait between retries (ex: 10s)
	PingTimeout    time.Duration // timeout for each ping attempt (ex: 2s)
	WarnThreshold  int           // warn after this many attempts
}

// OptionsFromConfig maps the redis settings of cfg.
func OptionsFromConfig(cfg *config.Config) ConnectOptions {
	return ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

// Validate ensures all retry settings are usable.
func (o ConnectOptions) Validate() error {
	switch {
	case o.Addr == "":
		return fmt.Errorf("redis address is empty")
	case o.ConnectTimeout <= 0:
		return fmt.Errorf("ConnectTimeout must be > 0, got %v", o.ConnectTimeout)
	case o.RetryInterval <= 0:
		return fmt.Errorf("RetryInterval must be > 0, got %v", o.RetryInterval)
	case o.MaxWait <= 0:
		return fmt.Errorf("MaxWait must be > 0, got %v", o.MaxWait)
	case o.PingTimeout <= 0:
		return fmt.Errorf("PingTimeout must be > 0, got %v", o.PingTimeout)
	case o.WarnThreshold < 0:
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// backoff doubles wait, capped at ceiling.
func backoff(wait, ceiling time.Duration) time.Duration {
	wait *= 2
	if wait > ceiling {
		return ceiling
	}
	return wait
}

// New creates a Redis client and pings it with exponential backoff until
// ConnectTimeout elapses or ctx is cancelled. The slot store is optional
// infrastructure, so callers decide whether a failure is fatal.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.Validate(); err != nil {
		log.Error("invalid redis options", logger.Error(err))
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := connectWithRetry(ctx, client, opts, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func connectWithRetry(ctx context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", opts.Addr),
		logger.Duration("timeout", opts.ConnectTimeout))

	start := time.Now()
	wait := opts.RetryInterval

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", opts.Addr),
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("connected to redis", logger.String("addr", opts.Addr))
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable",
				logger.String("addr", opts.Addr),
				logger.Int("attempts", attempt),
				logger.Duration("timeout", opts.ConnectTimeout),
				logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)

		case <-timer.C:
			fields := []logger.Field{
				logger.String("addr", opts.Addr),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err),
			}
			if attempt <= opts.WarnThreshold {
				log.Warn("redis connection failed, retrying", fields...)
			} else {
				log.Error("redis still unavailable, retrying", fields...)
			}
			wait = backoff(wait, opts.MaxWait)
		}
	}
}
