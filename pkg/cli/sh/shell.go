package sh

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/axiled/pkg/ledctl"
	"github.com/robotalks/axiled/pkg/pattern"
	"github.com/robotalks/axiled/pkg/regs"
)

// Shell provides an ishell backed console over the register bank.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell      *ishell.Shell
	Bank       regs.Bank
	Controller *ledctl.Controller
}

// Register is the value of a register for display.
type Register struct {
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Value  uint32 `json:"value"`
}

const shellKey = "$shell"

var (
	// flags

	enabled    bool
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&RegsCmd,
		&GetCmd,
		&SetCmd,
		&LEDsCmd,
		&StatusCmd,
	}
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&enabled, "shell", enabled, "Run the register console while the loop is running.")
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// Enabled indicates the console is requested.
func Enabled() bool {
	return enabled || evalOnly
}

// New creates a new shell.
func New(bank regs.Bank, ctl *ledctl.Controller) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:      ishell.New(),
		Bank:       bank,
		Controller: ctl,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("axiled > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Registers reads all registers.
func (s *Shell) Registers() []Register {
	offsets := regs.Offsets()
	values := make([]Register, len(offsets))
	for n, off := range offsets {
		values[n] = Register{Name: regs.Name(off), Offset: off, Value: s.Bank.Read32(off)}
	}
	return values
}

// Get reads the register by name.
func (s *Shell) Get(name string) (Register, error) {
	off, err := regs.ParseOffset(name)
	if err != nil {
		return Register{}, err
	}
	return Register{Name: regs.Name(off), Offset: off, Value: s.Bank.Read32(off)}, nil
}

// Set writes a control register by name.
func (s *Shell) Set(name, value string) (Register, error) {
	off, err := regs.ParseOffset(name)
	if err != nil {
		return Register{}, err
	}
	if off == regs.LED && s.Controller != nil {
		return Register{}, ledctl.ErrReadOnlyRegister
	}
	val, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return Register{}, fmt.Errorf("invalid value %q: %v", value, err)
	}
	s.Bank.Write32(off, uint32(val))
	return Register{Name: regs.Name(off), Offset: off, Value: uint32(val)}, nil
}

// Run evaluates args as one command, or runs the interactive shell
// until it exits when args is empty.
func (s *Shell) Run(args ...string) error {
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if !s.Interactive {
		return errors.New("command expected")
	}
	s.Shell.Run()
	return nil
}

func (s *Shell) print(c *ishell.Context, v interface{}, text func()) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	text()
}

func printRegister(c *ishell.Context, r Register) {
	c.Printf("%-6s 0x%02x = 0x%08x (%d)\n", r.Name, r.Offset, r.Value, r.Value)
}

var (
	// RegsCmd dumps all registers.
	RegsCmd = ishell.Cmd{
		Name:    "regs",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			values := s.Registers()
			s.print(c, values, func() {
				for _, r := range values {
					printRegister(c, r)
				}
			})
		},
	}

	// GetCmd reads a register.
	GetCmd = ishell.Cmd{
		Name: "get",
		Help: "NAME",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			s := ShellFrom(c)
			r, err := s.Get(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s.print(c, r, func() { printRegister(c, r) })
		},
	}

	// SetCmd writes a control register.
	SetCmd = ishell.Cmd{
		Name: "set",
		Help: "NAME VALUE (NAME: dir, count, blink)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("NAME and VALUE required"))
				return
			}
			s := ShellFrom(c)
			r, err := s.Set(c.Args[0], c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			s.print(c, r, func() { printRegister(c, r) })
		},
	}

	// LEDsCmd renders the LED register.
	LEDsCmd = ishell.Cmd{
		Name:    "leds",
		Aliases: []string{"l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			val := s.Bank.Read32(regs.LED)
			v := pattern.Decode(uint8(val))
			s.print(c, map[string]interface{}{"value": val, "pattern": v.String()}, func() {
				c.Printf("%s 0x%02x\n", v, uint8(val))
			})
		},
	}

	// StatusCmd shows the controller state.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Help: "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Controller == nil {
				c.Err(fmt.Errorf("controller not running"))
				return
			}
			st := s.Controller.Status()
			s.print(c, st, func() {
				c.Printf("%s ptr=%d mask=%d dir=%d count=%d blink=%d ticks=%d\n",
					st.Pattern, st.StartPtr, st.BlinkMask,
					st.Direction, int32(st.ActiveCount), st.BlinkEnable, st.Ticks)
			})
		},
	}
)
