package crawler

import "fmt"

// State is a step of the per-target lifecycle.
type State int

const (
	Idle State = iota
	Navigating
	AwaitingInitialContent
	Converging
	Extracting
	Appending
	NextTarget
	Done
	Terminated
)

var stateNames = [...]string{
	Idle:                   "idle",
	Navigating:             "navigating",
	AwaitingInitialContent: "awaiting-initial-content",
	Converging:             "converging",
	Extracting:             "extracting",
	Appending:              "appending",
	NextTarget:             "next-target",
	Done:                   "done",
	Terminated:             "terminated",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}
