package wizard

// Stages is the classified wizard state of one session.
//
// It is a value type: Apply returns a new state and never mutates the receiver.
// Progress is tracked as a pointer to the highest fully completed stage, the
// active stage, an optional errored stage and a monotonic set of waiting stages.
// Earlier stages are implicitly started and ended once a later one is observed.
type Stages struct {
	observed bool
	active   Stage
	// completed is the number of leading stages that have ended.
	completed int
	failed    bool
	errored   Stage
	waiting   [stageCount]bool
}

// StageView is the per-stage flag set exposed to presentation.
type StageView struct {
	Stage   Stage
	Name    string
	Label   string
	Started bool
	Ended   bool
	Error   bool
	Waiting bool
}

// Apply returns the state after the token. Stale tokens and tokens after an
// error are rejected with a protocol error and leave the state unchanged.
func (s Stages) Apply(tok Token) (Stages, error) {
	if tok.None {
		return s, nil
	}

	if s.failed {
		return s, NewProtocolError(CodeSessionFailed, "session failed", "stage "+s.errored.String()+" reported an error")
	}

	if s.observed && tok.Stage < s.active {
		return s, NewProtocolError(CodeStaleStatus, "stale status", tok.String()+" after "+s.active.String())
	}

	next := s
	next.observed = true
	next.active = tok.Stage

	if int(tok.Stage) > next.completed {
		next.completed = int(tok.Stage)
	}

	switch tok.Phase {
	case PhaseStart:
	case PhaseEnd:
		if int(tok.Stage)+1 > next.completed {
			next.completed = int(tok.Stage) + 1
		}
	case PhaseError:
		next.failed = true
		next.errored = tok.Stage
	case PhaseWait:
		next.waiting[tok.Stage] = true
	}

	return next, nil
}

// Stage returns the flags of one stage.
func (s Stages) Stage(stage Stage) StageView {
	view := StageView{
		Stage: stage,
		Name:  stage.String(),
		Label: stage.Label(),
	}

	if !stage.valid() {
		return view
	}

	view.Ended = int(stage) < s.completed
	view.Started = view.Ended || (s.observed && stage <= s.active)
	view.Error = s.failed && s.errored == stage
	view.Waiting = s.waiting[stage]

	return view
}

// List returns the flags of every stage in workflow order.
func (s Stages) List() []StageView {
	views := make([]StageView, 0, stageCount)
	for _, stage := range AllStages {
		views = append(views, s.Stage(stage))
	}

	return views
}

// StepIndex is the index of the first stage that has not ended. An errored
// stage stops the scan at its own index. When every stage has ended the index
// of the last stage is returned.
func (s Stages) StepIndex() int {
	for i, stage := range AllStages {
		if s.failed && s.errored == stage {
			return i
		}

		if i >= s.completed {
			return i
		}
	}

	return stageCount - 1
}

// IsReady reports whether the terminal "ready" status has been observed.
func (s Stages) IsReady() bool {
	return s.completed >= stageCount
}

// Failed returns the errored stage, if any.
func (s Stages) Failed() (Stage, bool) {
	return s.errored, s.failed
}

// Active returns the most recently reported stage, if any.
func (s Stages) Active() (Stage, bool) {
	return s.active, s.observed
}

// Waiting reports whether the backend has asked for user input at the stage.
func (s Stages) Waiting(stage Stage) bool {
	return stage.valid() && s.waiting[stage]
}
