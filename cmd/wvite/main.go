// wvite is an operator tool for the wrapped-coin ledger: it applies
// operation scripts to the persisted state and inspects the result.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/wvite/config"
)

var log = log15.New("module", "cmd")

func main() {
	app := cli.NewApp()
	app.Name = "wvite"
	app.Usage = "wrapped-coin ledger tool"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to the ledger config file",
			Value: config.DefaultFileName,
		},
	}
	app.Commands = []cli.Command{
		runCommand,
		inspectCommand,
		eventsCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.GlobalString("config")
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	logLevel, err := log15.LvlFromString(cfg.LogLevel)
	if err != nil {
		logLevel = log15.LvlInfo
	}
	out := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.DataDir, "wvite.log"),
		MaxSize:    100,
		MaxBackups: 14,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(logLevel, log15.StreamHandler(out, log15.LogfmtFormat())))
}
