package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the board, derived from
// the machine ID so the raw value isn't published.
// Falls back to the hostname when the machine ID isn't available.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id[:12]
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
