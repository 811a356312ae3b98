// Package sh is an interactive shell around a simulated board running
// the monitor.
package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/m0soc/pkg/board/sim"
	fx "github.com/robotalks/m0soc/pkg/framework"
	"github.com/robotalks/m0soc/pkg/monitor"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoStart   bool
	// OutputTimeout bounds the wait for the monitor to answer a line.
	OutputTimeout time.Duration

	Shell  *ishell.Shell
	Config *monitor.Config
	Sim    *SimLoop
}

// SimLoop is a running loop with a simulated board.
type SimLoop struct {
	Ctx     context.Context
	Cancel  func()
	Board   *sim.Board
	Monitor *monitor.Monitor
	Loop    *fx.Loop

	doneCh chan error
}

const (
	shellKey         = "$shell"
	poweredOffPrompt = "[off] > "
	poweredOnPrompt  = "[m0] > "

	// DefaultOutputTimeout is the default of Shell.OutputTimeout.
	DefaultOutputTimeout = time.Second
)

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&StartCmd,
		&StopCmd,
		&OutCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *monitor.Config) *Shell {
	s := &Shell{
		Interactive:   !evalOnly,
		OutputTimeout: DefaultOutputTimeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(poweredOffPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeRunning wraps command func requires a powered board.
func MustBeRunning(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Sim == nil {
			c.Err(fmt.Errorf("board not started"))
			return
		}
		fn(c)
	}
}

// WithAutoStart sets AutoStart.
func (s *Shell) WithAutoStart(en bool) *Shell {
	s.AutoStart = en
	return s
}

// Start powers up a fresh simulated board and runs the monitor on it.
func (s *Shell) Start() error {
	b := sim.NewBoard()
	m, err := s.Config.NewMonitor(b)
	if err != nil {
		return err
	}
	simLoop := &SimLoop{
		Board:   b,
		Monitor: m,
		Loop:    fx.NewLoop(),
		doneCh:  make(chan error, 1),
	}
	simLoop.Loop.Add(m)
	if err := m.Init(); err != nil {
		return err
	}
	s.Stop()
	simLoop.Ctx, simLoop.Cancel = context.WithCancel(context.Background())
	go func() {
		simLoop.doneCh <- simLoop.Loop.Run(simLoop.Ctx)
	}()
	s.Sim = simLoop
	s.Shell.SetPrompt(poweredOnPrompt)
	return nil
}

// Stop powers the board down.
func (s *Shell) Stop() {
	if s.Sim != nil {
		s.Sim.Board.UART.Close()
		s.Sim.Cancel()
		<-s.Sim.doneCh
		s.Sim = nil
		s.Shell.SetPrompt(poweredOffPrompt)
	}
}

// Output waits until the console shows expect, or OutputTimeout passes,
// and returns what was transmitted since the last call.
func (s *Shell) Output(expect string) string {
	if s.Sim == nil {
		return ""
	}
	if expect != "" {
		ctx, cancel := context.WithTimeout(s.Sim.Ctx, s.OutputTimeout)
		defer cancel()
		s.Sim.Board.UART.WaitOutput(ctx, expect)
	}
	return s.Sim.Board.UART.Drain()
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoStart {
		if err := s.Start(); err != nil {
			log.Fatalf("start board failed: %v", err)
		}
		if s.Interactive {
			s.Shell.Print(s.Output(""))
		}
	}
	defer s.Stop()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// StartCmd powers up the board.
	StartCmd = ishell.Cmd{
		Name:    "start",
		Aliases: []string{"on"},
		Help:    "power up a fresh board",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if err := s.Start(); err != nil {
				c.Err(err)
				return
			}
			c.Print(s.Output(""))
		},
	}

	// StopCmd powers down the board.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"off"},
		Help:    "power down the board",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Stop()
		},
	}

	// OutCmd prints pending console output.
	OutCmd = ishell.Cmd{
		Name:    "out",
		Aliases: []string{"o"},
		Help:    "print console output",
		Func: MustBeRunning(func(c *ishell.Context) {
			c.Print(ShellFrom(c).Output(""))
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(monitor.NewConfig()).WithAutoStart(true).Run(flag.Args()...)
}
