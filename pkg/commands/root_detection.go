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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// DetectProjectRoot looks for rlyeh.yaml in startDir and its parents.
// Returns the absolute path to the project root, or empty string if not found.
func DetectProjectRoot(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(filepath.Join(currentDir, ConfigFilename)); err == nil && !info.IsDir() {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached filesystem root
			return "", nil
		}

		currentDir = parentDir
	}
}

// detectRootFromCWD detects project root from current working directory.
func detectRootFromCWD() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	return DetectProjectRoot(currentDir)
}

// DetectAndSetRoot sets the project root from the current working directory
// unless --root was given explicitly.
func DetectAndSetRoot(cmd *cobra.Command, _ []string) error {
	Config.RootDirExplicit = cmd.Flags().Changed("root")
	if Config.RootDirExplicit {
		return nil
	}

	detectedRoot, err := detectRootFromCWD()
	if err != nil {
		return err
	}

	if detectedRoot != "" {
		Config.RootDir = detectedRoot
	}

	return nil
}

// ConfigPath is the configuration file of the current project root.
func ConfigPath() string {
	return filepath.Join(Config.RootDir, ConfigFilename)
}
