// Package all registers every shell command.
package all

import (
	_ "github.com/robotalks/m0soc/pkg/cli/cmds/accel"
	_ "github.com/robotalks/m0soc/pkg/cli/cmds/board"
)
