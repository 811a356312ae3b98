package main

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/m0soc/pkg/board/host"
	fx "github.com/robotalks/m0soc/pkg/framework"
	"github.com/robotalks/m0soc/pkg/monitor"
	"github.com/robotalks/m0soc/pkg/telemetry"
	"github.com/robotalks/m0soc/pkg/telemetry/mqtt"
)

func init() {
	host.SetupFlags()
	monitor.SetupFlags()
	mqtt.SetupFlags()
}

// run keeps the terminal in raw mode only while it runs.
func run(board *host.Board) error {
	defer board.Close()

	mon, err := monitor.NewConfig().NewMonitor(board)
	if err != nil {
		return err
	}
	if conf := mqtt.NewConfig(); conf.Enabled() {
		pub, err := conf.NewPublisher()
		if err != nil {
			return err
		}
		mon.Publisher, mon.DeviceID = pub, pub.DeviceID
	} else if glog.V(1) {
		mon.Publisher, mon.DeviceID = telemetry.LogPublisher, telemetry.DeviceID()
	}

	loop := fx.NewLoop().Add(mon)
	if err := mon.Init(); err != nil {
		return err
	}
	return fx.NewRunner().HandleSignals().Go(loop).Wait()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(host.NewConfig().MustNewBoard()); err != nil {
		glog.Flush()
		log.Fatalln(err)
	}
}
