package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"go.uber.org/zap"
)

// DumpDir 崩溃文件写入的目录
var DumpDir = "."

// PrintCoreDump 在 main 的 defer 中调用，记录 panic 和堆栈后继续向上抛出
func PrintCoreDump() {
	r := recover()
	if r == nil {
		return
	}
	stack := debug.Stack()
	glog.Error("process panic", glog.Panic(r), zap.ByteString("stack", stack))
	glog.Stop()
	if path, err := writeDump(r, stack); err == nil {
		fmt.Fprintf(os.Stderr, "panic: %v (dump: %s)\n", r, path)
	}
	panic(r)
}

func writeDump(r interface{}, stack []byte) (string, error) {
	name := fmt.Sprintf("xcall-%s-%d.dump", time.Now().Format("20060102150405"), os.Getpid())
	path := filepath.Join(DumpDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err = fmt.Fprintf(file, "%v\n==================\n%s", r, stack); err != nil {
		return "", err
	}
	return path, nil
}
