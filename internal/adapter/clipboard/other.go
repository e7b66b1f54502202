//go:build !darwin && !linux

package clipboard

var pasteCommands [][]string
