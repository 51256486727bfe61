package primetime

import (
	"fmt"

	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/field"
)

const hudHeight = 3

// slotWidth is the screen width of one column: the cell plus a bracket on
// each side for the cursor.
func (g *Game) slotWidth() int {
	return g.field.Spec().CellWidth + 2
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.field == nil {
		msg := "Failed to start game"
		if g.err != nil {
			msg = g.err.Error()
		}
		dst.DrawTextCentered(dst.Height()/2, msg, core.ColorRed)
		return
	}

	slot := g.slotWidth()
	boardW := g.field.Columns()*slot + 2
	boardH := g.field.Rows() + 3 // borders plus the incoming row
	if dst.Width() < boardW || dst.Height() < boardH+hudHeight+1 {
		g.renderTooSmall(dst)
		return
	}

	boardX := (dst.Width() - boardW) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX, boardW)
	dst.DrawBox(core.NewRect(boardX, boardY, boardW, g.field.Rows()+2), core.ColorGray)
	g.renderCrates(dst, boardX+1, boardY+1)
	g.renderBlocks(dst, boardX+1, boardY+1)
	g.renderCursor(dst, boardX+1, boardY+1)
	g.renderOverlays(dst, boardY+g.field.Rows()/2)

	hint := g.rules.Hint()
	dst.DrawTextCentered(boardY+boardH, hint, core.ColorGray)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorDefault)
}

func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := g.Title()
	if g.IsReplay() {
		title += " (replay)"
	}
	dst.DrawTextCentered(0, title, core.ColorBrightWhite)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.rules.Score()))

	info := fmt.Sprintf("Level %d", g.rules.Level())
	if c := g.rules.Chain(); c > 0 {
		info = fmt.Sprintf("Chain x%d  %s", c+1, info)
	}
	infoX := max(boardX, boardX+boardW-len(info))
	dst.DrawTextColored(infoX, 1, info, core.ColorCyan)

	if t := g.rules.Target(); t.Num != 0 {
		dst.DrawTextCentered(2, "Target: "+t.String(), core.ColorBrightYellow)
	}
}

// screenRow maps a field row (0 at the floor) to a screen line.
func (g *Game) screenRow(top, row int) int {
	return top + g.field.Rows() - 1 - row
}

func blockColor(b *field.Block) core.Color {
	switch {
	case b.Selected:
		return core.ColorBrightWhite
	case b.Incoming:
		return core.ColorGray
	case b.Combo:
		return core.ColorBrightMagenta
	}
	switch b.Kind {
	case field.KindPrime:
		return core.ColorCyan
	case field.KindProduct:
		return core.ColorYellow
	case field.KindFraction:
		return core.ColorBrightBlue
	default:
		return core.ColorGreen
	}
}

func (g *Game) renderBlocks(dst *core.Screen, left, top int) {
	slot := g.slotWidth()
	cw := g.field.Spec().CellWidth
	for _, b := range g.field.Blocks() {
		row := b.Row()
		if b.Incoming {
			// only the row about to enter is shown, under the floor
			if row != -1 {
				continue
			}
		} else if row < 0 || row >= g.field.Rows() {
			continue
		}
		x := left + b.Column*slot
		y := g.screenRow(top, row)
		if b.Incoming {
			y = top + g.field.Rows() + 1
		}
		text := b.Value.String()
		if len(text) > cw {
			text = text[:cw]
		}
		pad := (cw - len(text)) / 2
		c := blockColor(b)
		fill := '·'
		if b.Selected {
			fill = '='
		}
		dst.DrawHLine(x+1, y, cw, fill, c)
		dst.DrawTextColored(x+1+pad, y, text, c)
	}
}

// renderCrates draws each crate lid on the first row above its target height.
func (g *Game) renderCrates(dst *core.Screen, left, top int) {
	if !g.field.Spec().Crates {
		return
	}
	slot := g.slotWidth()
	for c, h := range g.field.Crates() {
		if h < 0 || h >= g.field.Rows() {
			continue
		}
		dst.DrawHLine(left+c*slot+1, g.screenRow(top, h), slot-2, '_', core.ColorOrange)
	}
}

func (g *Game) renderCursor(dst *core.Screen, left, top int) {
	if g.IsReplay() || g.gameOver || g.won {
		return
	}
	x := left + g.cursorCol*g.slotWidth()
	y := g.screenRow(top, g.cursorRow)
	dst.SetColored(x, y, '[', core.ColorBrightYellow)
	dst.SetColored(x+g.slotWidth()-1, y, ']', core.ColorBrightYellow)
}

func (g *Game) renderOverlays(dst *core.Screen, y int) {
	switch {
	case g.won:
		dst.DrawTextCentered(y, " YOU WIN! ", core.ColorBrightGreen)
		dst.DrawTextCentered(y+1, fmt.Sprintf(" Score: %d  R to restart ", g.rules.Score()), core.ColorBrightGreen)
	case g.gameOver:
		dst.DrawTextCentered(y, " GAME OVER ", core.ColorBrightRed)
		dst.DrawTextCentered(y+1, fmt.Sprintf(" Score: %d  R to restart ", g.rules.Score()), core.ColorBrightRed)
	case g.paused:
		dst.DrawTextCentered(y, " PAUSED ", core.ColorBrightYellow)
	}
}
