package xcall

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/node"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupAndShutdown(t *testing.T) {
	InitWithConfig(config.Default(), node.WithGlogOptions(glog.WithWriter(io.Discard), glog.WithConsole(false)))
	require.NoError(t, Startup(context.Background()))

	result, err := GetNode().Host().View(context.Background(), "alice_near", contract.MethodGetBalance, nil)
	require.NoError(t, err)
	assert.Equal(t, `"100000000000000000000000000"`, string(result.Value))

	require.NoError(t, Shutdown(time.Second))
}

func TestInitFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node:\n  name: from-file\n"), 0o644))

	require.NoError(t, Init(path))
	assert.Equal(t, "from-file", GetNode().Config().Node.Name)

	assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
}
