package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/config"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		wantNil  bool
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "disabled", cfg: config.RedisConfig{}, wantNil: true},
		{name: "address", cfg: config.RedisConfig{Addr: "cache:6379", DB: 2}, wantAddr: "cache:6379", wantDB: 2},
		{name: "url wins", cfg: config.RedisConfig{URL: "redis://:pw@other:6380/3", Addr: "cache:6379"}, wantAddr: "other:6380", wantDB: 3},
		{name: "bad url", cfg: config.RedisConfig{URL: "http://nope"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, opts)
				return
			}
			assert.Equal(t, tt.wantAddr, opts.Addr)
			assert.Equal(t, tt.wantDB, opts.DB)
		})
	}
}

func TestRedisOptionsTimeout(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Addr: "cache:6379", TimeoutMillis: 250})
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, opts.DialTimeout)
}

func TestDisabledBackends(t *testing.T) {
	r, err := NewRedis(config.RedisConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()

	pg := &Postgres{}
	assert.False(t, pg.Enabled())
	assert.NoError(t, pg.Ping(context.Background()))
	assert.Equal(t, PoolStats{}, pg.Stats())
	pg.Close()
}
