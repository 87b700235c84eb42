package termview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
)

func TestHeatmap(t *testing.T) {
	m, err := posenc.GenerateDefault(12, 20)
	require.NoError(t, err)

	st := NewStyles(palette.ThemeChalk)
	out := Heatmap(m, palette.Heatmap(), st, HeatmapOptions{CellWidth: 2, MaxCols: 16, LabelEvery: 8})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header, 12 rows, truncation note
	require.Len(t, lines, 14)
	assert.Contains(t, lines[0], "8")
	assert.Contains(t, lines[1], " 0 ")
	assert.Contains(t, lines[12], "11 ")
	assert.Contains(t, lines[13], "16 of 20")
}

func TestLegend(t *testing.T) {
	out := Legend(palette.Heatmap(), 5, NewStyles(palette.ThemeMinimal))
	assert.Contains(t, out, "-1.0")
	assert.Contains(t, out, "+1.0")
}

func TestWaves(t *testing.T) {
	m, err := posenc.GenerateDefault(16, 8)
	require.NoError(t, err)

	out, err := Waves(m, []int{0, 1, 4}, 40, 8)
	require.NoError(t, err)
	assert.Contains(t, out, "sin_0")
	assert.Contains(t, out, "cos_0")
	assert.Contains(t, out, "sin_2")

	_, err = Waves(m, []int{8}, 40, 8)
	assert.ErrorIs(t, err, posenc.ErrInvalidShape)

	_, err = Waves(m, nil, 40, 8)
	assert.Error(t, err)
}

func step(t *testing.T, p Player, msg tea.Msg) (Player, tea.Cmd) {
	t.Helper()
	next, cmd := p.Update(msg)
	pl, ok := next.(Player)
	require.True(t, ok)
	return pl, cmd
}

func TestPlayerAdvancesAndHolds(t *testing.T) {
	p := NewPlayer("demo", []string{"a\n", "b\n", "c\n"}, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}, NewStyles(palette.ThemeChalk))
	require.NotNil(t, p.Init())

	p, cmd := step(t, p, frameMsg{})
	assert.Equal(t, 1, p.Index())
	assert.NotNil(t, cmd)

	p, _ = step(t, p, frameMsg{})
	p, cmd = step(t, p, frameMsg{})
	assert.Equal(t, 2, p.Index())
	assert.True(t, p.Done())
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "frame 3/3")
	assert.Contains(t, p.View(), "(end)")
}

func TestPlayerLoops(t *testing.T) {
	p := NewPlayer("demo", []string{"a", "b"}, nil, NewStyles(palette.ThemeChalk)).Looping(true)
	p, _ = step(t, p, frameMsg{})
	p, cmd := step(t, p, frameMsg{})
	assert.Equal(t, 0, p.Index())
	assert.False(t, p.Done())
	assert.NotNil(t, cmd)
}

func TestPlayerQuit(t *testing.T) {
	p := NewPlayer("demo", []string{"a"}, nil, NewStyles(palette.ThemeChalk))
	assert.Nil(t, p.Init(), "a single frame needs no ticks")

	_, cmd := step(t, p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPlayerEmpty(t *testing.T) {
	p := NewPlayer("empty", nil, nil, NewStyles(palette.ThemeChalk))
	assert.Contains(t, p.View(), "no frames")
}
