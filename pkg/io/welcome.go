package io

import (
	_ "embed"

	"github.com/matzehuels/moodboard/pkg/canvas"
)

//go:embed welcome.json
var welcomeJSON []byte

// Welcome returns a fresh copy of the bundled starter canvas that new
// boards open with. The document carries its own viewport.
func Welcome() (*canvas.Document, error) {
	res, err := Deserialize(welcomeJSON)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}
