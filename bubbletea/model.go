package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/tutor"
	tutorjson "github.com/fwojciec/tutor/json"
)

var _ tea.Model = Model{}

const (
	cmdImage = "/image"
	cmdSave  = "/save"
	cmdQuit  = "/quit"
)

// Model is the Bubble Tea model for the tutor TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation. Exported for test access.
	Viewport viewport.Model

	step    StepFunc
	session *tutor.Session
	images  bool
	theme   tutor.Theme
	styles  Styles
	spinner spinner.Model

	blocks []MessageBlock

	running bool
	cancel  context.CancelFunc
	outCh   chan tutor.Output
	doneCh  chan error
	err     error
	notice  string
	ready   bool
}

// Option configures a Model.
type Option func(*Model)

// WithImages enables the /image command.
func WithImages(enabled bool) Option {
	return func(m *Model) { m.images = enabled }
}

// New creates a TUI Model that runs step for every submitted action.
func New(step StepFunc, session *tutor.Session, theme tutor.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a math question..."
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.ShowSuggestions = true
	ti.SetSuggestions([]string{cmdImage + " ", cmdSave + " ", cmdQuit})
	ti.Focus()

	styles := NewStyles(theme)
	m := Model{
		Input:   ti,
		step:    step,
		session: session,
		theme:   theme,
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Muted)),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Running returns whether a step is in progress.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OutputMsg:
		m.blocks = append(m.blocks, NewBlock(msg.Output, m.theme, m.styles))
		m.refresh()
		if m.outCh != nil {
			return m, listenForOutput(m.outCh, m.doneCh)
		}
		return m, nil

	case StepDoneMsg:
		m.running = false
		m.cancel = nil
		m.outCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
			m.refresh()
		}
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(tutor.Title))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	titleHeight := 1
	inputHeight := 1
	statusHeight := 1
	borderHeight := 2
	vpHeight := max(msg.Height-titleHeight-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.refresh()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		m.err = nil
		m.notice = ""
		return m.submit(text)
	}

	if m.running {
		return m, nil
	}
	// Character keys go to the input only; 'j' and 'k' would otherwise
	// also scroll the viewport.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit dispatches a command or starts a step for typed text.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case cmdQuit:
		return m, tea.Quit
	case cmdSave:
		return m.save(arg), nil
	case cmdImage:
		return m.submitImage(arg)
	}
	return m.start(&actionHost{text: text})
}

func (m Model) save(path string) Model {
	if path == "" {
		m.err = fmt.Errorf("usage: %s <file>", cmdSave)
		return m
	}
	if err := tutorjson.Save(path, m.session); err != nil {
		m.err = err
		return m
	}
	m.notice = "Transcript saved to " + path
	return m
}

// submitImage handles "/image <path> [question]".
func (m Model) submitImage(arg string) (tea.Model, tea.Cmd) {
	if !m.images {
		m.err = fmt.Errorf("image input is only available in %q mode", tutor.ModeHistoryImage)
		return m, nil
	}
	path, question, _ := strings.Cut(arg, " ")
	if path == "" {
		m.err = fmt.Errorf("usage: %s <file> [question]", cmdImage)
		return m, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		m.err = fmt.Errorf("read image: %w", err)
		return m, nil
	}
	img, err := tutor.NewImage(data)
	if err != nil {
		m.err = err
		return m, nil
	}
	label := fmt.Sprintf("Uploaded %s (%s, %dx%d)", path, img.MimeType, img.Width, img.Height)
	m.blocks = append(m.blocks, NewInfoBlock(label, m.styles))
	return m.start(&actionHost{text: strings.TrimSpace(question), image: &img})
}

func (m Model) start(h *actionHost) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.outCh = make(chan tutor.Output, 16)
	m.doneCh = make(chan error, 1)
	m.running = true
	h.ctx = ctx
	h.out = m.outCh
	m.Input.Blur()
	m.refresh()

	return m, tea.Batch(
		startStep(ctx, m.step, m.session, h, m.outCh, m.doneCh),
		listenForOutput(m.outCh, m.doneCh),
		m.spinner.Tick,
	)
}

// renderSession creates blocks for the turns already in the transcript.
func (m Model) renderSession() Model {
	turns := m.session.Transcript.Turns()
	if len(turns) == 0 {
		m.blocks = append(m.blocks, NewInfoBlock(tutor.Greeting, m.styles))
		return m
	}
	for _, t := range turns {
		m.blocks = append(m.blocks, NewBlock(tutor.PresentTurn(t), m.theme, m.styles))
	}
	return m
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

func (m Model) renderContent() string {
	views := make([]string, len(m.blocks))
	for i, block := range m.blocks {
		views[i] = block.View(m.Viewport.Width)
	}
	return strings.Join(views, "\n\n")
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.running:
		return m.spinner.View() + m.styles.Muted.Render(" Thinking...")
	case m.notice != "":
		return m.styles.Muted.Render(m.notice)
	case m.images:
		return m.styles.Muted.Render("Enter to send, /image <file> to upload, /save <file>, Ctrl+C to quit")
	default:
		return m.styles.Muted.Render("Enter to send, /save <file>, Ctrl+C to quit")
	}
}

// startStep runs the step in a goroutine and signals completion.
func startStep(ctx context.Context, step StepFunc, session *tutor.Session, h tutor.Host, outCh chan<- tutor.Output, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := step(ctx, session, h)
		close(outCh)
		doneCh <- err
		return nil
	}
}

// listenForOutput waits for the next output. When the channel closes it
// reads the step error and returns StepDoneMsg.
func listenForOutput(ch <-chan tutor.Output, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		out, ok := <-ch
		if !ok {
			return StepDoneMsg{Err: <-doneCh}
		}
		return OutputMsg{Output: out}
	}
}
