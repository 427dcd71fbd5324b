package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	xcall "github.com/3ugen/challenge9-call-cross-contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/config"
	"github.com/3ugen/challenge9-call-cross-contract/internal/contract"
	"github.com/3ugen/challenge9-call-cross-contract/internal/host"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/glog"
	"github.com/3ugen/challenge9-call-cross-contract/pkg/lib"
	"go.uber.org/zap"
)

func main() {
	defer lib.PrintCoreDump()

	var (
		path       = flag.String("config", "", "yaml config file")
		demo       = flag.String("demo", "", "run call_balance_ext against the given receiver and exit")
		dumpConfig = flag.Bool("dump-config", false, "print the effective config and exit")
	)
	flag.Parse()

	if err := xcall.Init(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	n := xcall.GetNode()
	if *dumpConfig {
		data, err := n.Config().Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(data)
		return
	}

	ctx := context.Background()
	if err := xcall.Startup(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		if err := xcall.Shutdown(5 * time.Second); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	if *demo != "" {
		if err := runDemo(ctx, n.Host(), n.Config(), *demo); err != nil {
			glog.Error("demo failed", zap.Error(err))
		}
		return
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	glog.Info("node running", zap.String("signal", (<-sig).String()))
}

func runDemo(ctx context.Context, h *host.Host, cfg *config.Config, receiver string) error {
	h.OnReceipt(func(r *host.ReceiptOutcome) {
		fmt.Printf("receipt #%d %s -> %s %v %s\n", r.Id, r.Predecessor, r.Executor, r.Actions, r.Status)
		for _, log := range r.Logs {
			fmt.Printf("    log: %s\n", log)
		}
	})
	args, err := lib.Json.Marshal(&contract.CallBalanceArgs{ReceiverId: receiver})
	if err != nil {
		return err
	}
	outcome, err := h.Execute(ctx, host.Tx{
		Signer:   cfg.Node.Signer,
		Receiver: cfg.Contract.Account,
		Method:   contract.MethodCallBalanceExt,
		Args:     args,
	})
	if err != nil {
		return err
	}
	fmt.Printf("status: %s value: %s error: %s\n", outcome.Status, outcome.Value, outcome.Error)
	b, err := h.Balance(ctx, receiver)
	if err == nil {
		fmt.Printf("%s balance: %s\n", receiver, b)
	}
	return nil
}
