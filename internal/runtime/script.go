// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
)

// Script is a resolved script file and its source, read once.
type Script struct {
	Path   string
	Source string
}

// LoadScript reads the script at path. A read failure is a *SetupError.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SetupError{Stage: "read script", Err: err}
	}
	return &Script{Path: path, Source: string(data)}, nil
}
