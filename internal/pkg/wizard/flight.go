package wizard

import "fmt"

// FlightState guards a request that must run at most once at a time.
type FlightState int

const (
	// FlightIdle means no request is running and none has succeeded.
	FlightIdle FlightState = iota
	// FlightInFlight means a request is running.
	FlightInFlight
	// FlightDone means a request has succeeded.
	FlightDone
)

func (f FlightState) String() string {
	switch f {
	case FlightIdle:
		return "idle"
	case FlightInFlight:
		return "in_flight"
	case FlightDone:
		return "done"
	default:
		return fmt.Sprintf("flight(%d)", int(f))
	}
}
