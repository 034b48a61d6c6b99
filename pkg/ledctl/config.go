package ledctl

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/axiled/pkg/pattern"
	"github.com/robotalks/axiled/pkg/regs"
)

// DeviceSim selects the simulated register bank.
const DeviceSim = "sim"

// Config defines the configurations for the controller.
type Config struct {
	// Device is either DeviceSim or the path of physical memory, e.g. /dev/mem.
	Device   string
	BaseAddr uint64

	TickIntervalUs int
	BlinkPeriod    int
	ShiftPeriod    int
}

var defaultConfig = Config{
	Device:         DeviceSim,
	BaseAddr:       regs.DefaultBaseAddr,
	TickIntervalUs: 100000,
	BlinkPeriod:    pattern.DefaultTiming.BlinkPeriod,
	ShiftPeriod:    pattern.DefaultTiming.ShiftPeriod,
}

func init() {
	if val := os.Getenv("AXILED_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("AXILED_BASE_ADDR"); val != "" {
		if addr, err := strconv.ParseUint(val, 0, 64); err == nil {
			defaultConfig.BaseAddr = addr
		}
	}
	if val := os.Getenv("AXILED_TICK_US"); val != "" {
		if us, err := strconv.Atoi(val); err == nil {
			defaultConfig.TickIntervalUs = us
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Register device: sim or path to physical memory, e.g. /dev/mem.")
	flag.Uint64Var(&defaultConfig.BaseAddr, "base", defaultConfig.BaseAddr, "Physical base address of the LED registers.")
	flag.IntVar(&defaultConfig.TickIntervalUs, "tick-us", defaultConfig.TickIntervalUs, "Delay of each loop iteration in microseconds.")
	flag.IntVar(&defaultConfig.BlinkPeriod, "blink-period", defaultConfig.BlinkPeriod, "Ticks before blink toggles.")
	flag.IntVar(&defaultConfig.ShiftPeriod, "shift-period", defaultConfig.ShiftPeriod, "Ticks before the strip rotates.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Timing returns the periods of blink and shift.
func (c *Config) Timing() pattern.Timing {
	return pattern.Timing{BlinkPeriod: c.BlinkPeriod, ShiftPeriod: c.ShiftPeriod}
}

// TickInterval returns the delay between ticks.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalUs) * time.Microsecond
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TickIntervalUs <= 0 {
		return fmt.Errorf("invalid tick interval %dus", c.TickIntervalUs)
	}
	if c.Device != DeviceSim && c.BaseAddr%4 != 0 {
		return fmt.Errorf("base 0x%x: %v", c.BaseAddr, regs.ErrMisaligned)
	}
	return c.Timing().Validate()
}

// OpenBank opens the register bank of the configured device.
func (c *Config) OpenBank() (regs.BankCloser, error) {
	if c.Device == DeviceSim {
		return regs.NewSimBank(), nil
	}
	mem, err := regs.OpenDevMem(c.Device, c.BaseAddr)
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// MustOpenBank opens the register bank and fails on error.
func (c *Config) MustOpenBank() regs.BankCloser {
	bank, err := c.OpenBank()
	if err != nil {
		log.Fatalln(err)
	}
	return bank
}

// NewController creates a controller using the config.
func (c *Config) NewController(bank regs.Bank) (*Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewController(bank, c.Timing()), nil
}

// MustNewController creates a controller and fails on error.
func (c *Config) MustNewController(bank regs.Bank) *Controller {
	ctl, err := c.NewController(bank)
	if err != nil {
		log.Fatalln(err)
	}
	return ctl
}
