package modules

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsynqServerRedisClientOpt(t *testing.T) {
	rq := require.New(t)

	opt := AsynqServer{
		RedisAddress:  "redis:6379",
		RedisUsername: "shaft",
		RedisPassword: "secret",
		RedisDB:       3,
	}.RedisClientOpt()

	rq.Equal("redis:6379", opt.Addr)
	rq.Equal("shaft", opt.Username)
	rq.Equal("secret", opt.Password)
	rq.Equal(3, opt.DB)
}

func TestAsynqLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	l := asynqLogger{log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))}
	l.Debug("hidden")
	l.Warn("queue ", "shafts", " is paused")

	rq.NotContains(buf.String(), "hidden")
	rq.Contains(buf.String(), "level=WARN")
	rq.Contains(buf.String(), `msg="queue shafts is paused"`)
}
