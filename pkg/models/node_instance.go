package models

import "time"

// NodeInstance is the runtime record of one activation of a compiled node, keyed by the
// node identity the compiler assigned.
type NodeInstance struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Enter *time.Time `json:"enter,omitempty"`
	Exit  *time.Time `json:"exit,omitempty"`
}
