package wizard

import "fmt"

// Stage is one step of the backend deployment workflow, in execution order.
type Stage int

const (
	StageBootstrap Stage = iota
	StageAuth
	StageInventory
	StageProvision
	StageService
	StageReady
)

const stageCount = int(StageReady) + 1

// AllStages lists every stage in workflow order.
var AllStages = [stageCount]Stage{
	StageBootstrap,
	StageAuth,
	StageInventory,
	StageProvision,
	StageService,
	StageReady,
}

func (s Stage) valid() bool {
	return s >= StageBootstrap && s <= StageReady
}

func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}

	return [...]string{
		"bootstrap",
		"auth",
		"inventory",
		"provision",
		"service",
		"ready",
	}[s]
}

// Label is the human readable stage title.
func (s Stage) Label() string {
	if !s.valid() {
		return s.String()
	}

	return [...]string{
		"Bootstrap",
		"Authentication",
		"Inventory",
		"Provisioning",
		"Services",
		"Ready",
	}[s]
}

func stageByName(name string) (Stage, bool) {
	for _, s := range AllStages {
		if s.String() == name {
			return s, true
		}
	}

	return 0, false
}

// Phase is the suffix of a status token.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseEnd
	PhaseError
	PhaseWait
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseEnd:
		return "end"
	case PhaseError:
		return "error"
	case PhaseWait:
		return "wait"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func phaseByName(name string) (Phase, bool) {
	for _, p := range []Phase{PhaseStart, PhaseEnd, PhaseError, PhaseWait} {
		if p.String() == name {
			return p, true
		}
	}

	return 0, false
}
