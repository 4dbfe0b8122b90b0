package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Terminal rows taken by the header, status line and help.
const playerChrome = 4

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	autoplay bool
	headless bool
	step     int
}

func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Step through a scenario in the terminal",
		Long: `Play a recorded scenario. Use → and ← to step, home and end to jump,
space to toggle autoplay and q to quit. When stdout is not a terminal the
scenario is played to the end and every step is logged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd, args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.autoplay, "autoplay", false, "start playing immediately")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "log steps instead of opening the player")
	cmd.Flags().IntVar(&opts.step, "step", 0, "initial cursor position")

	return cmd
}

func (c *CLI) runPlay(cmd *cobra.Command, path string, opts *playOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	doc, tree, sc, err := c.loadDocument(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if _, err := sc.Seek(opts.step); err != nil {
		return err
	}

	out := os.Stdout
	if opts.headless || !isatty.IsTerminal(out.Fd()) {
		return playHeadless(ctx, loggerFromContext(ctx), sc)
	}

	width, height, err := term.GetSize(int(out.Fd()))
	if err != nil {
		width, height = 80, 24
	}
	m := newPlayerModel(doc.Name, tree, sc, cfg.Animation.Tick, cfg.Animation.Autoplay)
	m.width, m.height = width, height
	m.autoplay = opts.autoplay

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out)).Run()
	return err
}

// playHeadless applies every remaining command and logs it.
func playHeadless(ctx context.Context, logger *log.Logger, sc *scenario.Scenario) error {
	cmds := sc.Commands()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := sc.Forward()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		logger.Info("Step", "n", sc.Cursor(), "of", sc.Len(), "cmd", fmt.Sprint(cmds[sc.Cursor()-1]))
	}
	logger.Info("Finished", "commands", sc.Len())
	return nil
}

// =============================================================================
// Key Bindings
// =============================================================================

type playerKeys struct {
	Forward  key.Binding
	Back     key.Binding
	Home     key.Binding
	End      key.Binding
	Autoplay key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var defaultPlayerKeys = playerKeys{
	Forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step")),
	Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
	Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "rewind")),
	End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "fast forward")),
	Autoplay: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "autoplay")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k playerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Forward, k.Autoplay, k.Help, k.Quit}
}

func (k playerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Forward},
		{k.Home, k.End},
		{k.Autoplay, k.Help, k.Quit},
	}
}

// =============================================================================
// Player Model
// =============================================================================

// frameMsg advances the animation by one tick.
type frameMsg time.Time

func nextFrame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

var (
	playerStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	playerErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	playerFrameStyle  = lipgloss.NewStyle().Foreground(colorWhite)
)

// playerModel animates a scenario on a braille canvas. The ticker is
// driven by frame messages, so nodes only move while the program runs.
type playerModel struct {
	name   string
	tree   *structure.Tree
	sc     *scenario.Scenario
	ticker *viz.Ticker
	keys   playerKeys
	help   help.Model

	tick      time.Duration
	autoDelay time.Duration
	autoplay  bool
	lastAuto  time.Time

	width, height int
	err           error
}

func newPlayerModel(name string, tree *structure.Tree, sc *scenario.Scenario, tick, autoDelay time.Duration) playerModel {
	t := viz.NewTicker(tree, tick)
	return playerModel{
		name:      name,
		tree:      tree,
		sc:        sc,
		ticker:    t,
		keys:      defaultPlayerKeys,
		help:      help.New(),
		tick:      t.Interval(),
		autoDelay: autoDelay,
		width:     80,
		height:    24,
	}
}

func (m playerModel) Init() tea.Cmd {
	return nextFrame(m.tick)
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Forward):
			m.autoplay = false
			_, m.err = m.sc.Forward()
		case key.Matches(msg, m.keys.Back):
			m.autoplay = false
			_, m.err = m.sc.Back()
		case key.Matches(msg, m.keys.Home):
			m.autoplay = false
			_, m.err = m.sc.Rewind()
		case key.Matches(msg, m.keys.End):
			m.autoplay = false
			_, m.err = m.sc.FastForward()
		case key.Matches(msg, m.keys.Autoplay):
			m.autoplay = !m.autoplay
			m.lastAuto = time.Time{}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case frameMsg:
		m.ticker.Tick()
		now := time.Time(msg)
		if m.autoplay && now.Sub(m.lastAuto) >= m.autoDelay {
			m.lastAuto = now
			ok, err := m.sc.Forward()
			if err != nil || !ok {
				m.autoplay = false
				m.err = err
			}
		}
		return m, nextFrame(m.tick)
	}
	return m, nil
}

func (m playerModel) View() string {
	var b strings.Builder

	title := m.name
	if title == "" {
		title = m.sc.ID()
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  step %d/%d", m.sc.Cursor(), m.sc.Len())))
	b.WriteString("\n")

	canvas := render.NewCanvas(max(m.width, 10), max(m.height-playerChrome, 5), m.tree.Viewport())
	m.tree.Render(canvas)
	b.WriteString(playerFrameStyle.Render(canvas.String()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(playerErrorStyle.Render(iconError + " " + m.err.Error()))
	case m.autoplay:
		b.WriteString(playerStatusStyle.Render("▶ playing"))
	case m.sc.Cursor() == m.sc.Len():
		b.WriteString(StyleSuccess.Render("■ end"))
	default:
		b.WriteString(playerStatusStyle.Render("❚❚ paused"))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
