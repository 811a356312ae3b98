package main

import (
	"github.com/robotalks/m0soc/pkg/cli/sh"
	"github.com/robotalks/m0soc/pkg/monitor"

	_ "github.com/robotalks/m0soc/pkg/cli/cmds/all"
)

func init() {
	monitor.SetupFlags()
}

func main() {
	sh.Main()
}
