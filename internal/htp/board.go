package htp

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hexwolf/internal/hex"
)

var (
	blackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	whiteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	emptyStyle = lipgloss.NewStyle().Faint(true)
)

func (e *Engine) cmdShowBoard([]string) (string, error) {
	return "\n" + renderBoard(e.game.Position()), nil
}

// renderBoard draws the rhombic board, each row shifted one half-cell so
// the hexagonal adjacency reads correctly in a terminal.
func renderBoard(pos *hex.Position) string {
	size := pos.Size()
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < size; col++ {
		sb.WriteByte(byte('a' + col))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for row := 0; row < size; row++ {
		sb.WriteString(strings.Repeat(" ", row))
		fmt.Fprintf(&sb, "%2d ", row+1)
		for col := 0; col < size; col++ {
			switch pos.At(hex.Move(row*size + col)) {
			case hex.Black:
				sb.WriteString(blackStyle.Render("B"))
			case hex.White:
				sb.WriteString(whiteStyle.Render("W"))
			default:
				sb.WriteString(emptyStyle.Render("."))
			}
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d\n", row+1)
	}
	sb.WriteString(strings.Repeat(" ", size+3))
	for col := 0; col < size; col++ {
		sb.WriteByte(byte('a' + col))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	return sb.String()
}
