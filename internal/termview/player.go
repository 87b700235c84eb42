package termview

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const minFrameDelay = time.Millisecond

type frameMsg struct{}

// Player is a bubbletea model that shows pre-rendered frames at their
// recorded pace. Playback only runs forward; q quits.
type Player struct {
	title  string
	frames []string
	delays []time.Duration
	index  int
	loop   bool
	done   bool
	styles Styles
}

func NewPlayer(title string, frames []string, delays []time.Duration, st Styles) Player {
	return Player{title: title, frames: frames, delays: delays, styles: st}
}

// Looping restarts playback after the last frame instead of holding it.
func (p Player) Looping(loop bool) Player {
	p.loop = loop
	return p
}

func (p Player) Index() int { return p.index }

func (p Player) Done() bool { return p.done }

func (p Player) delay(i int) time.Duration {
	if i < len(p.delays) && p.delays[i] > minFrameDelay {
		return p.delays[i]
	}
	return minFrameDelay
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(p.delay(p.index), func(time.Time) tea.Msg { return frameMsg{} })
}

func (p Player) Init() tea.Cmd {
	if len(p.frames) < 2 {
		return nil
	}
	return p.tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		}
	case frameMsg:
		switch {
		case p.index < len(p.frames)-1:
			p.index++
			return p, p.tick()
		case p.loop && len(p.frames) > 1:
			p.index = 0
			return p, p.tick()
		default:
			p.done = true
		}
	}
	return p, nil
}

func (p Player) View() string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render(p.title))
	b.WriteByte('\n')
	if len(p.frames) == 0 {
		b.WriteString(p.styles.Error.Render("no frames"))
		b.WriteByte('\n')
		return b.String()
	}
	b.WriteString(p.styles.Frame.Render(strings.TrimRight(p.frames[p.index], "\n")))
	b.WriteByte('\n')

	status := fmt.Sprintf("frame %d/%d", p.index+1, len(p.frames))
	if p.done {
		status += "  (end)"
	}
	b.WriteString(p.styles.Status.Render(status))
	b.WriteString(p.styles.Muted.Render("  q quit"))
	b.WriteByte('\n')
	return b.String()
}

// Play runs p until the user quits.
func Play(p Player, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(p, opts...).Run()
	return err
}
