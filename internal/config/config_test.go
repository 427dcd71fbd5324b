package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/errs"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/balance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	params, err := cfg.ContractParams()
	require.NoError(t, err)
	assert.Equal(t, contract.DefaultBaseGas, params.BaseGas)
	assert.True(t, params.OneUnit.Equals(balance.OneNear))
	assert.True(t, params.NoDeposit.IsZero())
	assert.Equal(t, contract.DefaultTransferTo, params.TransferTo)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, `
host:
  blockDelay: 10ms
  ledger:
    backend: redis
contract:
  thresholdUnits: 20
genesis:
  - id: alice_near
    balance: "5"
    contract: xcall
`)
	t.Setenv("XCALL_GATE_ADDRESS", "tcp://0.0.0.0:9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Host.BlockDelay)
	assert.Equal(t, LedgerRedis, cfg.Host.Ledger.Backend)
	assert.Equal(t, "127.0.0.1:6379", cfg.Host.Ledger.Redis.Addr)
	assert.Equal(t, uint64(20), cfg.Contract.ThresholdUnits)
	assert.Equal(t, uint64(contract.DefaultTopUpUnits), cfg.Contract.TopUpUnits)
	assert.Equal(t, "tcp://0.0.0.0:9999", cfg.Gate.Address)
	require.Len(t, cfg.Genesis, 1)
	initial, err := cfg.Genesis[0].Initial()
	require.NoError(t, err)
	assert.Equal(t, "5", initial.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"backend":  "host:\n  ledger:\n    backend: etcd\n",
		"level":    "glog:\n  level: loud\n",
		"oneUnit":  "contract:\n  oneUnit: \"1.5\"\n",
		"overflow": "contract:\n  oneUnit: \"340282366920938463463374607431768211455\"\n",
		"account":  "contract:\n  account: \"-bad\"\n",
		"genesis":  "genesis:\n  - id: carol\n    balance: \"-1\"\n",
		"reporter": "genesis:\n  - id: carol\n    balance: \"1\"\n    contract: wallet\n",
		"frame":    "gate:\n  maxFrame: 0\n",
	}
	for name, content := range cases {
		_, err := Parse([]byte(content))
		assert.ErrorContains(t, err, "invalid config", name)
	}
	_, err := Parse([]byte("host: ["))
	assert.Error(t, err)
}

func TestMarshalParse(t *testing.T) {
	cfg := Default()
	cfg.Host.BlockDelay = time.Second
	cfg.Genesis[2].ReportBalance = "7"
	data, err := cfg.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
	reported, err := parsed.Genesis[2].Reported()
	require.NoError(t, err)
	assert.Equal(t, "7", reported.String())
}

func TestInvalidConfigError(t *testing.T) {
	cfg := Default()
	cfg.Host.Ledger.Redis.Addr = ""
	cfg.Host.Ledger.Backend = LedgerRedis
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host.ledger.redis.addr")
	assert.NotErrorIs(t, err, errs.ErrAccountNotFound)
}
