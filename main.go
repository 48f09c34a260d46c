package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MixinNetwork/issuance/host"
	"github.com/MixinNetwork/issuance/store"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bp := flag.String("d", "~/.mixin/issuance/data", "database directory path")
	cp := flag.String("c", "~/.mixin/issuance/config.toml", "configuration file path")
	flag.Parse()

	conf, err := host.Setup(expandHome(*cp))
	if err != nil {
		logrus.Fatalf("host.Setup(%s) => %v", *cp, err)
	}
	logger.SetLevel(conf.Dispatch.LogLevel)

	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		logrus.Fatalf("store.OpenBadger(%s) => %v", *bp, err)
	}
	defer db.Close()

	h, err := host.BuildHost(ctx, db, conf)
	if err != nil {
		logrus.Fatalf("host.BuildHost() => %v", err)
	}
	go h.Run(ctx)

	err = h.Serve(ctx)
	if err != nil {
		logrus.Errorf("host.Serve() => %v", err)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, _ := user.Current()
	return filepath.Join(usr.HomeDir, path[2:])
}
