//go:build darwin

package clipboard

var pasteCommands = [][]string{{"pbpaste"}}
