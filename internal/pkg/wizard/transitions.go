package wizard

import (
	"fmt"
	"strings"
)

// Sentinel status values.
const (
	StatusNone            = "none"
	StatusReady           = "ready"
	StatusChooseOperation = "choose_operation"
)

// allowedPhases is the status vocabulary: the phases the backend may report for each stage.
var allowedPhases = map[Stage][]Phase{
	StageBootstrap: {
		PhaseStart,
		PhaseEnd,
		PhaseError,
		PhaseWait,
	},
	StageAuth: {
		PhaseStart,
		PhaseEnd,
		PhaseError,
	},
	StageInventory: {
		PhaseStart,
		PhaseWait,
		PhaseEnd,
		PhaseError,
	},
	StageProvision: {
		PhaseStart,
		PhaseEnd,
	},
	StageService: {
		PhaseStart,
		PhaseWait,
		PhaseEnd,
	},
	StageReady: {
		PhaseEnd,
	},
}

func isAllowed(stage Stage, phase Phase) bool {
	for _, p := range allowedPhases[stage] {
		if p == phase {
			return true
		}
	}

	return false
}

// Token is a parsed status string.
type Token struct {
	Stage Stage
	Phase Phase
	// None is set for the "none" sentinel, which carries no stage.
	None bool
}

func (t Token) String() string {
	switch {
	case t.None:
		return StatusNone
	case t.Stage == StageReady:
		return StatusReady
	default:
		return fmt.Sprintf("%s_%s", t.Stage, t.Phase)
	}
}

// NormalizeStatus lower-cases and trims a raw status string.
func NormalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseStatus parses a raw status string into a Token.
//
// Accepted forms are "none", "ready", "<stage>" (same as "<stage>_start") and
// "<stage>_<phase>" where the phase is in the vocabulary of the stage.
func ParseStatus(raw string) (Token, error) {
	status := NormalizeStatus(raw)

	switch status {
	case "":
		return Token{}, NewProtocolError(CodeMalformedStatus, "empty status", "")
	case StatusNone:
		return Token{None: true}, nil
	case StatusReady:
		return Token{Stage: StageReady, Phase: PhaseEnd}, nil
	}

	name, suffix, hasPhase := strings.Cut(status, "_")

	stage, ok := stageByName(name)
	if !ok || stage == StageReady {
		return Token{}, NewProtocolError(CodeUnknownStage, "unknown stage", status)
	}

	phase := PhaseStart
	if hasPhase {
		phase, ok = phaseByName(suffix)
		if !ok {
			return Token{}, NewProtocolError(CodeUnknownPhase, "unknown phase", status)
		}
	}

	if !isAllowed(stage, phase) {
		return Token{}, NewProtocolError(CodePhaseNotAllowed, "phase not allowed for stage", status)
	}

	return Token{Stage: stage, Phase: phase}, nil
}
