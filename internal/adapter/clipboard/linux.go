//go:build linux

package clipboard

var pasteCommands = [][]string{
	{"wl-paste", "--no-newline", "--type", "text"},
	{"xclip", "-selection", "clipboard", "-o"},
	{"xsel", "--clipboard", "--output"},
}
