// viewport.go provides a reusable scrollable viewport component
// with both vertical and horizontal scrolling and text wrapping.
//
// Widths are measured in terminal cells and styled (ANSI) text is cut
// without breaking its escape sequences.
package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Viewport is a scrollable text area.
type Viewport struct {
	width    int
	height   int
	content  []string // lines of content
	scrollY  int      // vertical scroll offset (line index)
	scrollX  int      // horizontal scroll offset (cells)
	wrapText bool     // whether to wrap text instead of horizontal scroll
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
	}
}

// SetContent replaces the viewport content. Tabs are expanded.
func (v *Viewport) SetContent(content string) {
	content = strings.ReplaceAll(content, "\t", "    ")
	v.content = strings.Split(content, "\n")
	v.clampScroll()
}

// SetSize updates viewport dimensions.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ToggleWrap toggles text wrapping.
func (v *Viewport) ToggleWrap() {
	v.wrapText = !v.wrapText
	v.scrollX = 0
	v.clampScroll()
}

// ScrollUp moves the viewport up by n lines.
func (v *Viewport) ScrollUp(n int) {
	v.scrollY -= n
	v.clampScroll()
}

// ScrollDown moves the viewport down by n lines.
func (v *Viewport) ScrollDown(n int) {
	v.scrollY += n
	v.clampScroll()
}

// ScrollLeft moves the viewport left.
func (v *Viewport) ScrollLeft(n int) {
	if !v.wrapText {
		v.scrollX -= n
		if v.scrollX < 0 {
			v.scrollX = 0
		}
	}
}

// ScrollRight moves the viewport right.
func (v *Viewport) ScrollRight(n int) {
	if !v.wrapText {
		v.scrollX += n
	}
}

// PageUp scrolls up by one page.
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height)
}

// PageDown scrolls down by one page.
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height)
}

// Home scrolls to the top.
func (v *Viewport) Home() {
	v.scrollY = 0
	v.scrollX = 0
}

// End scrolls to the bottom.
func (v *Viewport) End() {
	v.scrollY = v.maxScrollY()
}

// Render returns the visible portion of the content.
func (v *Viewport) Render() string {
	if len(v.content) == 0 {
		return ""
	}

	lines := v.lines()
	end := v.scrollY + v.height
	if end > len(lines) {
		end = len(lines)
	}
	var visible []string
	if v.scrollY < len(lines) {
		visible = append(visible, lines[v.scrollY:end]...)
	}
	if !v.wrapText {
		for i, line := range visible {
			visible[i] = truncate(ansi.TruncateLeft(line, v.scrollX, ""), v.width)
		}
	}

	// Pad to fill viewport height
	for len(visible) < v.height {
		visible = append(visible, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(visible, "\n"), v.scrollIndicator(len(lines)))
}

// lines returns the content as displayed: wrapped when wrapping is on.
func (v *Viewport) lines() []string {
	if !v.wrapText || v.width <= 0 {
		return v.content
	}
	var wrapped []string
	for _, line := range v.content {
		wrapped = append(wrapped, strings.Split(ansi.Hardwrap(line, v.width, true), "\n")...)
	}
	return wrapped
}

func (v *Viewport) clampScroll() {
	maxY := v.maxScrollY()
	if v.scrollY > maxY {
		v.scrollY = maxY
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

func (v *Viewport) maxScrollY() int {
	max := len(v.lines()) - v.height
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewport) scrollIndicator(total int) string {
	if total <= v.height {
		return ""
	}
	pct := (v.scrollY + v.height) * 100 / total
	if pct > 100 {
		pct = 100
	}
	rule := v.width - 20
	if rule < 0 {
		rule = 0
	}
	return StyleDimmed.Render(
		strings.Repeat("─", rule) +
			" " + itoa(pct) + "% " +
			"(" + itoa(v.scrollY+1) + "/" + itoa(total) + ")")
}

func itoa(n int) string { return strconv.Itoa(n) }

// truncate cuts s to at most width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
