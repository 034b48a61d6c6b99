package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/axiled/pkg/cli/sh"
	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1/env"
	"github.com/robotalks/axiled/pkg/ledctl"
)

func init() {
	ledctl.SetupFlags()
	env.SetupFlags()
	sh.SetupFlags()
}

func main() {
	flag.Parse()
	err := run()
	if err != nil {
		glog.Error(err)
	}
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	conf := ledctl.NewConfig()
	bank := conf.MustOpenBank()
	defer bank.Close()

	ctl := conf.MustNewController(bank)
	e := env.NewConfig().MustNewEnv()
	if e.Publishing() {
		ctl.Events = e.Registrar
	}

	loop := fx.NewLoop().Add(e, ctl)
	loop.Interval = conf.TickInterval()
	glog.Infof("driving LEDs on %s@0x%x every %v", conf.Device, conf.BaseAddr, loop.Interval)

	r := fx.NewRunner().HandleSignals().Go(loop)
	var shErr error
	if sh.Enabled() {
		shErr = sh.New(bank, ctl).Run(flag.Args()...)
		r.Stop()
	}
	// the loop must be gone before the bank is closed.
	if err := r.Wait(); err != nil {
		return err
	}
	return shErr
}
