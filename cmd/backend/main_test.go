package main

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-tracker/internal/config"
)

func TestRun_SchemaFailureNeverListens(t *testing.T) {
	// Reserve a port, then free it so the listen address is known but idle.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg, err := config.LoadFrom(map[string]string{
		"HOST":                 "127.0.0.1",
		"PORT":                 strconv.Itoa(port),
		"DB_HOST":              "127.0.0.1",
		"DB_PORT":              "1",
		"SCHEMA_INIT_ATTEMPTS": "2",
		"SCHEMA_INIT_BACKOFF":  "10ms",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = run(ctx, cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema initialization failed after 2 attempt(s)")

	_, dialErr := net.DialTimeout("tcp", cfg.Addr(), time.Second)
	assert.Error(t, dialErr, "nothing may listen after a failed schema init")
}
