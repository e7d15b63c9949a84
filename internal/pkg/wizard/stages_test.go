package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Token
		errCode string
	}{
		{"none", "none", Token{None: true}, ""},
		{"ready", "ready", Token{Stage: StageReady, Phase: PhaseEnd}, ""},
		{"upper case with spaces", "  BOOTSTRAP_START ", Token{Stage: StageBootstrap, Phase: PhaseStart}, ""},
		{"bare stage", "auth", Token{Stage: StageAuth, Phase: PhaseStart}, ""},
		{"wait", "inventory_wait", Token{Stage: StageInventory, Phase: PhaseWait}, ""},
		{"service end", "service_end", Token{Stage: StageService, Phase: PhaseEnd}, ""},
		{"empty", "", Token{}, CodeMalformedStatus},
		{"unknown stage", "frobnicate_start", Token{}, CodeUnknownStage},
		{"choose operation", "choose_operation", Token{}, CodeUnknownStage},
		{"ready with phase", "ready_start", Token{}, CodeUnknownStage},
		{"unknown phase", "auth_pending", Token{}, CodeUnknownPhase},
		{"phase outside vocabulary", "provision_wait", Token{}, CodePhaseNotAllowed},
		{"auth wait", "auth_wait", Token{}, CodePhaseNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := ParseStatus(tt.raw)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, IsProtocolError(err))

				var appErr *AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.errCode, appErr.Code)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, tok)
		})
	}
}

func TestStagesStepIndex(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		step   int
		ready  bool
	}{
		{"initial", nil, 0, false},
		{"none only", []string{"none"}, 0, false},
		{"bootstrap started", []string{"bootstrap_start"}, 0, false},
		{"bootstrap ended", []string{"bootstrap_start", "bootstrap_end"}, 1, false},
		{"skip to auth", []string{"auth_start"}, 1, false},
		{"inventory waiting", []string{"inventory_wait"}, 2, false},
		{"provision ended", []string{"provision_end"}, 4, false},
		{"service ended", []string{"service_start", "service_end"}, 5, false},
		{"ready", []string{"ready"}, 5, true},
		{"auth error", []string{"bootstrap_end", "auth_start", "auth_error"}, 1, false},
		{"bootstrap error", []string{"bootstrap_error"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := classifyAll(tt.tokens...)
			assert.Equal(t, tt.step, s.StepIndex())
			assert.Equal(t, tt.ready, s.IsReady())
		})
	}
}

func TestStagesImpliesEarlierStagesEnded(t *testing.T) {
	s := classifyAll("provision_start")

	for _, stage := range []Stage{StageBootstrap, StageAuth, StageInventory} {
		view := s.Stage(stage)
		assert.True(t, view.Started, stage.String())
		assert.True(t, view.Ended, stage.String())
	}

	provision := s.Stage(StageProvision)
	assert.True(t, provision.Started)
	assert.False(t, provision.Ended)

	service := s.Stage(StageService)
	assert.False(t, service.Started)
	assert.False(t, service.Ended)
}

func TestStagesReadyCompletesEveryStage(t *testing.T) {
	s := classifyAll("bootstrap_start", "ready")

	for _, view := range s.List() {
		assert.True(t, view.Started, view.Name)
		assert.True(t, view.Ended, view.Name)
		assert.False(t, view.Error, view.Name)
	}
}

func TestStagesErrorHaltsAdvancement(t *testing.T) {
	s := classifyAll("bootstrap_end", "auth_error")
	require.Equal(t, 1, s.StepIndex())

	stage, failed := s.Failed()
	require.True(t, failed)
	assert.Equal(t, StageAuth, stage)
	assert.True(t, s.Stage(StageAuth).Error)

	after := classifyAll("bootstrap_end", "auth_error", "inventory_start", "ready")
	assert.Equal(t, s, after)
	assert.False(t, after.IsReady())
}

func TestStagesStaleTokenIgnored(t *testing.T) {
	s := classifyAll("inventory_wait")

	next, err := s.Apply(Token{Stage: StageBootstrap, Phase: PhaseStart})
	require.Error(t, err)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeStaleStatus, appErr.Code)
	assert.Equal(t, s, next)
}

func TestStagesWaitingIsMonotonic(t *testing.T) {
	s := classifyAll("inventory_start", "inventory_wait", "provision_start")

	assert.True(t, s.Waiting(StageInventory))
	assert.False(t, s.Waiting(StageService))
	assert.True(t, s.Stage(StageInventory).Ended)
}

func TestClassifyUnknownTokenIsNoop(t *testing.T) {
	for _, base := range [][]string{
		nil,
		{"bootstrap_start"},
		{"auth_end", "inventory_wait"},
		{"ready"},
	} {
		s := classifyAll(base...)

		for _, raw := range []string{"", "bogus", "auth_wait", "inventory_", "_start", "choose_operation", "ready_end"} {
			assert.Equal(t, s, Classify(s, raw), "%v + %q", base, raw)
		}
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	tokens := []string{
		"none", "bootstrap_start", "bootstrap_end", "bootstrap_wait", "auth_start", "auth_end",
		"inventory_start", "inventory_wait", "inventory_end", "provision_start", "provision_end",
		"service_start", "service_wait", "service_end", "ready", "auth_error", "bootstrap_error",
	}

	var s Stages
	for _, tok := range tokens {
		once := Classify(s, tok)
		twice := Classify(once, tok)
		assert.Equal(t, once, twice, tok)
		s = once
	}
}

func TestClassifyStepIsMonotonic(t *testing.T) {
	sequences := [][]string{
		{"none", "bootstrap_start", "bootstrap_end", "auth_start", "auth_end", "inventory_start", "inventory_wait", "provision_start", "provision_end", "service_start", "service_wait", "service_end", "ready"},
		{"service_start", "bootstrap_start", "auth_end", "ready", "none"},
		{"inventory_wait", "garbage", "auth_start", "inventory_wait", "provision_end"},
		{"bootstrap_end", "auth_error", "ready", "service_end"},
	}

	for _, seq := range sequences {
		var s Stages
		prev := s.StepIndex()

		for _, tok := range seq {
			s = Classify(s, tok)
			assert.GreaterOrEqual(t, s.StepIndex(), prev, "%v at %q", seq, tok)
			prev = s.StepIndex()
		}
	}
}

func TestScenarioInventoryWait(t *testing.T) {
	s := classifyAll("none", "bootstrap_start", "bootstrap_end", "auth_start", "auth_end", "inventory_start", "inventory_wait")

	assert.Equal(t, int(StageInventory), s.StepIndex())
	assert.True(t, s.Waiting(StageInventory))
	assert.False(t, s.IsReady())
}

func TestScenarioReadyOnlyAfterTerminalToken(t *testing.T) {
	s := classifyAll("none", "bootstrap_start", "bootstrap_end", "auth_start", "auth_end",
		"inventory_start", "inventory_wait", "provision_start", "provision_end",
		"service_start", "service_end")

	assert.Equal(t, int(StageReady), s.StepIndex())
	assert.False(t, s.IsReady())

	s = Classify(s, "ready")
	assert.Equal(t, int(StageReady), s.StepIndex())
	assert.True(t, s.IsReady())
}
