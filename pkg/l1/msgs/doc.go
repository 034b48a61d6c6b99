// Package msgs defines the messages exchanged with remote peers:
// register commands sent to the controller and LED status events
// published by it.
package msgs
