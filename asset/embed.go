// Package asset bundles the default sprites, sounds, font descriptor, scene
// and AI script so the game runs without a content directory
package asset

import "embed"

// FS holds every bundled asset at its bare file name
//
//go:embed *.png *.wav *.toml *.yaml *.lua
var FS embed.FS

const (
	SceneFile = "game_scene.yaml"
	AIScript  = "ai.lua"
)
