// Package env sets up how the LED controller is reachable from peers.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"

	fx "github.com/robotalks/axiled/pkg/framework"
	"github.com/robotalks/axiled/pkg/l1"
	"github.com/robotalks/axiled/pkg/l1/comm"
	"github.com/robotalks/axiled/pkg/l1/comm/mqtt"
	"github.com/robotalks/axiled/pkg/l1/comm/websocket"
)

const appID = "axiled"

// Config provides options to publish the controller.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use, empty to disable.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address for event streaming, empty to disable.
	WebsocketAddr string
}

var defaultConfig = Config{
	Info: l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: appID},
		Meta: l1.ControllerMeta{Description: "AXI LED strip controller"},
	},
}

func init() {
	if val := os.Getenv("AXILED_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("AXILED_WS_ADDR"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
	if val := os.Getenv("AXILED_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	if defaultConfig.Info.Ref.ID == "" {
		defaultConfig.Info.Ref.ID = MachineID()
	}
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Controller ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Listen address streaming events over websocket, empty to disable")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env holds the registrars publishing the controller.
type Env struct {
	Config    *Config
	Registrar *comm.RegistrarMux
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	env := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		if !c.Info.Ref.IsValid() {
			return nil, fmt.Errorf("controller type and id must be specified")
		}
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		env.Registrar.Add(reg)
	}
	if c.WebsocketAddr != "" {
		env.Registrar.Add(websocket.NewServer(c.WebsocketAddr))
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// Publishing indicates any registrar is configured.
func (e *Env) Publishing() bool {
	return !e.Registrar.Empty()
}

// AddToLoop adds registrars to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
}
