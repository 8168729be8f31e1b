package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vex/lang"
	"github.com/ardnew/vex/log"
)

// Session is the environment a REPL evaluates against.
type Session struct {
	Env     *lang.Env
	Options []lang.Option
	// Tick advances live bindings. It may be nil.
	Tick func(context.Context) error
}

// editMsg is sent when editing completes. An empty source means the edit
// was cancelled.
type editMsg struct{ source string }

// editDeclinedMsg is sent when the user declined to re-edit after a compile
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-compile error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help          Print this help
  list [PREFIX] List bound names and their current values
  tick [N]      Advance live bindings N times (default 1)
  edit          Edit the current expression in $VISUAL or $EDITOR
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type an expression to evaluate it against the bound names
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Inside a builtin call, its signature is shown with the current argument
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Press Ctrl+C on empty line or Ctrl+D to exit
`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	session      Session
	logger       log.Logger
	input        textinput.Model
	history      *History
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // names offered in eval mode
	preTabText   string        // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int // cursor position before tab-cycling began
	width        int // terminal width for ellipsization
	mode         inputMode
	tabActive    bool // whether user is tab-cycling
	quitting     bool
}

// Run starts an interactive session over s. History is kept in cacheDir, or
// in memory only if cacheDir is empty.
func Run(
	ctx context.Context,
	s Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if s.Env == nil {
		s.Env = lang.NewEnv()
	}

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", path),
		slog.Int("history_entries", history.Len()),
		slog.Int("bindings", s.Env.Len()))

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return context.Cause(ctx)
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    s,
		logger:     logger,
		input:      ti,
		history:    history,
		candidates: evalCandidates(s.Env),
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editMsg:
		if msg.source == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.input.SetValue(msg.source)
		m.input.CursorEnd()
		m.refreshMatches(false)

		return m, nil

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit declined"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeEval:
		signature, params := getSignature(call.name)
		b.WriteString(renderSignatureHint(signature, params, call.argIndex))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current tab candidate without executing.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(+1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		return m.switchToMode(1 - m.mode), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the tab selection by step, starting tab-cycling if needed.
// A single candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	} else {
		m.suggIdx = (m.suggIdx + step + n) % n
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also drops the completion bar once the typed
// word equals the sole remaining candidate.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.matches[0].Str == m.input.Value()[m.wordStart:m.wordEnd] {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))

	result, err := m.eval(input)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(formatError(input, err)))
	}

	return m, tea.Sequence(echo, tea.Println(
		resultStyle.Render(lang.Render(result))+"  "+
			hintStyle.Render(result.Kind().String())))
}

// eval compiles and evaluates src against the session environment.
func (m model) eval(src string) (lang.Variant, error) {
	ctx := m.ctxFunc()
	opts := append(m.session.Options[:len(m.session.Options):len(m.session.Options)],
		lang.WithLogger(m.logger))

	p, err := lang.CompileCached(ctx, src, opts...)
	if err != nil {
		return lang.Variant{}, err
	}

	v, err := p.Eval(ctx, m.session.Env)

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("source", src),
		slog.Bool("success", err == nil))

	return v, err
}

// formatError renders err with an excerpt of src marking the error position.
func formatError(src string, err error) string {
	msg := errorStyle.Render("error: " + err.Error())

	var le *lang.Error
	if errors.As(err, &le) {
		if ex := le.Excerpt(src); ex != "" {
			msg += "\n" + hintStyle.Render(strings.TrimSuffix(ex, "\n"))
		}
	}

	return msg
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Printf("%s", helpMessage))

	case "l", "list":
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}

		return m, tea.Sequence(echo, tea.Println(m.list(prefix)))

	case "t", "tick":
		return m, tea.Sequence(echo, tea.Println(m.tick(args)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		m = m.switchToMode(modeEval)

		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown command: "+cmd+" (try 'help')")))
	}
}

// list renders every bound name starting with prefix and its current value.
func (m model) list(prefix string) string {
	var b strings.Builder

	for _, name := range m.session.Env.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		value := hintStyle.Render("<error>")

		if lazy, ok := m.session.Env.Lookup(name); ok {
			if v, err := lazy.Resolve(); err == nil {
				value = resultStyle.Render(lang.Render(v))
			}
		}

		fmt.Fprintf(&b, "  %s %s\n", name, value)
	}

	if b.Len() == 0 {
		return hintStyle.Render("  no bindings")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// tick advances live bindings the number of times given in args.
func (m model) tick(args []string) string {
	if m.session.Tick == nil {
		return hintStyle.Render("no live bindings")
	}

	n := 1

	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return errorStyle.Render("tick: invalid count " + strconv.Quote(args[0]))
		}

		n = v
	}

	for i := range n {
		if err := m.session.Tick(m.ctxFunc()); err != nil {
			return errorStyle.Render(fmt.Sprintf("tick %d: %v", i+1, err))
		}
	}

	return resultStyle.Render(fmt.Sprintf("ticked %d", n))
}

// edit opens the current eval input in an external editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
		opts:    m.session.Options,
		source:  m.input.Value(),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		return editMsg{source: cmd.edited}
	})
}

// historyMove steps through history by step, switching mode to match the
// recalled entry. Stepping past the newest entry clears the input.
func (m model) historyMove(step int) model {
	i := m.historyIdx + step
	if i < 0 {
		return m
	}

	m.tabActive = false

	entry, err := m.history.Entry(i)
	if err != nil {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)

		return m
	}

	m.historyIdx = i

	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.CursorEnd()
	m.refreshMatches(false)

	return m
}

// switchToMode switches to the specified mode.
func (m model) switchToMode(mode inputMode) model {
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.refreshMatches(false)

	return m
}
