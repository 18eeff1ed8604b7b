package game

import "github.com/atotto/clipboard"

// setClipboardText copies text to the system clipboard.
func setClipboardText(text string) error {
	if text == "" {
		text = " "
	}
	return clipboard.WriteAll(text)
}
