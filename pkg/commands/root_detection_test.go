// Copyright Cozystack Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFilename), []byte("globalOptions: {}\n"), 0o600))

	// A directory with the config name does not count.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", ConfigFilename), 0o755))

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"root itself", root, root},
		{"nested directory", nested, root},
		{"not inside a project", t.TempDir(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectProjectRoot(tt.start)
			require.NoError(t, err)

			want := tt.want
			if want != "" {
				want, err = filepath.EvalSymlinks(want)
				require.NoError(t, err)
				got, err = filepath.EvalSymlinks(got)
				require.NoError(t, err)
			}

			assert.Equal(t, want, got)
		})
	}
}
