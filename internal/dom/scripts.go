package dom

import "fmt"

// HighlightScript draws a temporary red overlay over the element it is bound to
// (`this`), then removes it after the given number of milliseconds.
const HighlightScript = `function(duration) {
    const rect = this.getBoundingClientRect();
    const overlay = document.createElement('div');
    overlay.style.position = 'fixed';
    overlay.style.left = rect.left + 'px';
    overlay.style.top = rect.top + 'px';
    overlay.style.width = rect.width + 'px';
    overlay.style.height = rect.height + 'px';
    overlay.style.border = '3px solid red';
    overlay.style.zIndex = 9999;
    overlay.style.pointerEvents = 'none';
    document.body.appendChild(overlay);
    setTimeout(() => overlay.remove(), duration);
    return true;
}`

// HighlightSelectorScript is HighlightScript for drivers that evaluate plain
// expressions instead of element-bound functions.
func HighlightSelectorScript(selector string, durationMs int) string {
	return fmt.Sprintf(`(() => {
    const el = document.querySelector(%q);
    if (!el) return false;
    return (%s).call(el, %d);
})()`, selector, HighlightScript, durationMs)
}

// RemoveAdScript removes the ad container if present.
var RemoveAdScript = fmt.Sprintf(`(() => {
    const ad = document.querySelector(%q);
    if (ad) { ad.remove(); return true; }
    return false;
})()`, AdContainer)

// ScanTilesScript returns JSON.stringify([{letter, state}, ...]) for every tile
// on the board, row by row.
var ScanTilesScript = fmt.Sprintf(`(() => {
    const tiles = Array.from(document.querySelectorAll(%q));
    return JSON.stringify(tiles.map(t => ({
        letter: (t.textContent || '').trim().toLowerCase(),
        state: t.getAttribute('data-state') || ''
    })));
})()`, Tile)
