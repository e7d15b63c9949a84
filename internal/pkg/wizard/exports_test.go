package wizard

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidName(t *testing.T) {
	c := NewServiceExportCoordinator(&scriptedAPI{}, 0, nil, nil)
	require.True(t, c.Add("media"))

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "  \t", false},
		{"duplicate", "media", false},
		{"duplicate after trim", "  media ", false},
		{"case differs", "Media", true},
		{"new name", "backups", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, c.IsValidName(tt.input))
		})
	}
}

func TestValidateExportNameCodes(t *testing.T) {
	err := ValidateExportName(" ", nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, &AppError{Code: CodeEmptyExportName})

	err = ValidateExportName("a", []string{"a"})
	assert.ErrorIs(t, err, &AppError{Code: CodeDuplicateExportName})
}

func TestExportAddRemoveKeepsOrder(t *testing.T) {
	c := NewServiceExportCoordinator(&scriptedAPI{}, 0, nil, nil)

	assert.True(t, c.Add(" alpha "))
	assert.True(t, c.Add("beta"))
	assert.True(t, c.Add("gamma"))
	assert.False(t, c.Add("beta"))
	assert.False(t, c.Add(""))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, c.Names())

	assert.True(t, c.Remove("beta"))
	assert.False(t, c.Remove("beta"))
	assert.Equal(t, []string{"alpha", "gamma"}, c.Names())

	assert.True(t, c.Remove(" alpha "), "names are trimmed before matching")
	assert.Equal(t, []string{"gamma"}, c.Names())
}

func TestExportConfirmSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	api.EXPECT().SetupServices(gomock.Any(), []string{"alpha", "beta"}).Return(nil).Times(1)

	c := NewServiceExportCoordinator(api, 0, nil, nil)
	c.Add("alpha")
	c.Add("beta")

	require.NoError(t, c.Confirm(context.Background()))
	assert.True(t, c.Confirmed())
	assert.False(t, c.Confirming())

	require.NoError(t, c.Confirm(context.Background()))
	assert.False(t, c.Add("gamma"), "confirmed set is frozen")
}

func TestExportConfirmFailure(t *testing.T) {
	api := &scriptedAPI{setupErr: errBackendDown}
	c := NewServiceExportCoordinator(api, 0, nil, nil)
	c.Add("alpha")

	err := c.Confirm(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.False(t, c.Confirmed())
	assert.False(t, c.Confirming())

	assert.True(t, c.Add("beta"), "set stays editable after a failure")

	api.mu.Lock()
	api.setupErr = nil
	api.mu.Unlock()

	require.NoError(t, c.Confirm(context.Background()))
	assert.Equal(t, [][]string{{"alpha"}, {"alpha", "beta"}}, api.exports)
}
