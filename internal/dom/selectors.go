// Package dom describes the game page: selectors, JS snippets and tile decoding
// shared by every browser driver.
package dom

import "fmt"

const (
	PlayButton   = `button[data-testid="Play"]`
	CloseButton  = `button[aria-label="Close"]`
	AdContainer  = `div[class*="adContainer"]`
	Tile         = `div[class*="Tile-module_tile"]`
	EnterKey     = `button[data-key="↵"]`
	BackspaceKey = `button[data-key="←"]`
)

// Key returns the on-screen keyboard selector for a letter.
func Key(letter rune) string {
	return fmt.Sprintf(`button[data-key="%c"]`, letter)
}
