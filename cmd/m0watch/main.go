package main

import (
	"flag"
	"log"
	"os"

	fx "github.com/robotalks/m0soc/pkg/framework"
	"github.com/robotalks/m0soc/pkg/telemetry"
	"github.com/robotalks/m0soc/pkg/telemetry/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/m0/"
)

func init() {
	if val := os.Getenv("M0_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	w, err := mqtt.NewWatcher(mqttURL, func(device string, s *telemetry.Sample) {
		log.Printf("%s: #%d x=%d y=%d z=%d (%.3f %.3f %.3f) truncated=%v %q",
			device, s.Seq, s.X, s.Y, s.Z, s.Gx, s.Gy, s.Gz, s.Truncated, s.Line)
	})
	if err != nil {
		log.Fatalln(err)
	}
	if err := fx.NewRunner().HandleSignals().Go(w).Wait(); err != nil {
		log.Fatalln(err)
	}
}
