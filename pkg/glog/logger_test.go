package glog

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() { Init(DefaultConfig(), WithWriter(io.Discard), WithConsole(false)) })
	buf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.Level = level
	Init(cfg, WithWriter(buf), WithConsole(false))
	return buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLevelFilter(t *testing.T) {
	buf := capture(t, "warn")
	Debug("dropped")
	Info("dropped too")
	Warn("kept", zap.Int("n", 1))
	Error("kept too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["L"])
	assert.Equal(t, "kept", lines[0]["M"])
	assert.EqualValues(t, 1, lines[0]["n"])
	assert.Equal(t, "error", lines[1]["L"])
}

func TestCallerPointsAtCallSite(t *testing.T) {
	buf := capture(t, "debug")
	Info("from test")
	Contract("alice_near").Debug("from contract")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0]["C"], "logger_test.go")
	assert.Contains(t, lines[1]["C"], "logger_test.go")
}

func TestContractLogger(t *testing.T) {
	buf := capture(t, "debug")
	alice := Contract("alice_near")
	assert.Same(t, alice, Contract("alice_near"))
	assert.NotSame(t, alice, Contract("bob_near"))

	alice.Debug("callback result")
	Contract("bob_near").Info("send some near")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "contract", lines[0]["N"])
	assert.Equal(t, "alice_near", lines[0][KeyAccount])
	assert.Equal(t, "callback result", lines[0]["M"])
	assert.Equal(t, "bob_near", lines[1][KeyAccount])
}

func TestInitResetsContractCache(t *testing.T) {
	capture(t, "debug")
	before := Contract("alice_near")
	Init(DefaultConfig(), WithWriter(io.Discard), WithConsole(false))
	assert.NotSame(t, before, Contract("alice_near"))
}

func TestSetNode(t *testing.T) {
	buf := capture(t, "info")
	SetNode("xcall-1")
	Info("started", Tx(7), Receipt(9), Method("get_balance"))
	Contract("alice_near").Info("log")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "xcall-1", lines[0]["node"])
	assert.EqualValues(t, 7, lines[0][KeyTx])
	assert.EqualValues(t, 9, lines[0][KeyReceipt])
	assert.Equal(t, "get_balance", lines[0][KeyMethod])
	assert.Equal(t, "xcall-1", lines[1]["node"])
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = ""
	assert.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	buf := capture(t, "verbose")
	Debug("dropped")
	Info("kept")
	assert.Len(t, decodeLines(t, buf), 1)
}
