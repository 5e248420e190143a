// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	a2a "github.com/go-a2a/a2a-chat"
	"github.com/go-a2a/a2a-chat/capability"
	"github.com/go-a2a/a2a-chat/chat"
	"github.com/go-a2a/a2a-chat/content"
)

type (
	// batchMsg reports parts applied to the active run.
	batchMsg struct{}

	runStartedMsg struct {
		run *chat.Run
		err error
	}

	runDoneMsg struct {
		run *chat.Run
		res *chat.Result
		err error
	}

	canceledMsg struct{ err error }
)

type entry struct {
	role a2a.Role
	text string
}

type styles struct {
	header      lipgloss.Style
	user        lipgloss.Style
	agent       lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	help        lipgloss.Style
	inputPanel  lipgloss.Style
}

func newStyles() styles {
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	pink := lipgloss.Color("#ff71ce")
	muted := lipgloss.Color("#9ca3d8")

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(blue).
			Padding(0, 1),
		user:        lipgloss.NewStyle().Foreground(mint).Bold(true),
		agent:       lipgloss.NewStyle().Foreground(pink).Bold(true),
		status:      lipgloss.NewStyle().Foreground(blue),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		help:        lipgloss.NewStyle().Foreground(muted),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted),
	}
}

type model struct {
	ctx context.Context
	app *app

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   styles

	history []entry
	run     *chat.Run
	sending bool
	pending *chat.Result
	last    *content.Message
	status  string
	err     error

	width  int
	height int
}

func newModel(ctx context.Context, a *app) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 8000
	input.Placeholder = "Message the agent. /edit <start>:<end> <instruction> edits the last artifact."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	return model{
		ctx:      ctx,
		app:      a,
		input:    input,
		viewport: vp,
		spinner:  sp,
		styles:   newStyles(),
		status:   "ready",
	}
}

func runTUI(ctx context.Context, a *app) error {
	p := tea.NewProgram(newModel(ctx, a), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	unsubscribe := a.session.Subscribe(func(chat.Batch) {
		p.Send(batchMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.render()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case batchMsg:
		m.render()

	case runStartedMsg:
		m.sending = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "send failed"
			m.render()
			break
		}
		m.run = msg.run
		m.status = "streaming"
		cmds = append(cmds, waitCmd(m.ctx, msg.run))

	case runDoneMsg:
		if msg.run != m.run {
			break
		}
		m.finish(msg)
		m.render()

	case canceledMsg:
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.run != nil {
				return m, tea.Sequence(cancelCmd(m.ctx, m.app.session), tea.Quit)
			}
			return m, tea.Quit
		case "esc":
			if m.run != nil {
				m.status = "canceling"
				return m, cancelCmd(m.ctx, m.app.session)
			}
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			cmd := m.submit(text)
			m.render()
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles one line of input.
func (m *model) submit(text string) tea.Cmd {
	if text == "/quit" {
		return tea.Quit
	}
	if m.run != nil || m.sending {
		m.status = "a run is in progress, esc cancels it"
		return nil
	}
	m.err = nil

	if arg, ok := strings.CutPrefix(text, "/edit "); ok {
		msg, err := parseEdit(arg, lastArtifact(m.last))
		if err != nil {
			m.err = err
			return nil
		}
		m.history = append(m.history, entry{role: a2a.RoleUser, text: text})
		m.sending = true
		m.status = "sending"
		app, ctx := m.app, m.ctx
		return startCmd(func() (*chat.Run, error) {
			return app.sendMessage(ctx, msg, capability.TurnOptions{})
		})
	}

	pending := m.pending
	m.pending = nil
	shown := text
	if pending != nil && pending.Kind == chat.ResultSecretRequired {
		shown = "(secrets provided)"
	}
	m.history = append(m.history, entry{role: a2a.RoleUser, text: shown})
	m.sending = true
	m.status = "sending"

	app, ctx := m.app, m.ctx
	return startCmd(func() (*chat.Run, error) {
		return app.send(ctx, text, pending)
	})
}

func (m *model) finish(msg runDoneMsg) {
	m.run = nil
	m.last = msg.run.Message()
	m.history = append(m.history, entry{role: a2a.RoleAgent, text: m.last.Content()})

	switch {
	case errors.Is(msg.err, chat.ErrCanceled):
		m.status = "canceled"
	case msg.err != nil:
		m.err = msg.err
		m.status = "failed"
	case msg.res != nil:
		m.pending = msg.res
		m.status = describeResult(msg.res)
	default:
		m.status = "done"
	}
}

func startCmd(start func() (*chat.Run, error)) tea.Cmd {
	return func() tea.Msg {
		run, err := start()
		return runStartedMsg{run: run, err: err}
	}
}

func waitCmd(ctx context.Context, run *chat.Run) tea.Cmd {
	return func() tea.Msg {
		res, err := run.Wait(ctx)
		return runDoneMsg{run: run, res: res, err: err}
	}
}

func cancelCmd(ctx context.Context, s *chat.Session) tea.Cmd {
	return func() tea.Msg {
		return canceledMsg{err: s.Cancel(ctx)}
	}
}

func (m *model) resize() {
	const chrome = 5 // header, status line, bordered input
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-chrome)
	m.input.Width = max(10, m.width-6)

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(20, m.width-4)),
	)
	if err == nil {
		m.renderer = r
	}
}

// render redraws the transcript, including the message of the active run.
func (m *model) render() {
	var sb strings.Builder
	for _, e := range m.history {
		m.writeEntry(&sb, e)
	}
	if m.run != nil {
		m.writeEntry(&sb, entry{role: a2a.RoleAgent, text: m.run.Message().Content()})
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *model) writeEntry(sb *strings.Builder, e entry) {
	if e.role == a2a.RoleUser {
		sb.WriteString(m.styles.user.Render("you"))
		sb.WriteString("\n")
		sb.WriteString(e.text)
		sb.WriteString("\n\n")
		return
	}

	sb.WriteString(m.styles.agent.Render(m.app.card.Name))
	sb.WriteString("\n")
	text := e.text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			text = out
		}
	}
	sb.WriteString(text)
	sb.WriteString("\n")
}

func (m model) View() string {
	header := m.styles.header.Render(fmt.Sprintf("%s · context %s", m.app.card.Name, m.app.contextID))

	var status string
	switch {
	case m.err != nil:
		status = m.styles.errorStatus.Render("error: " + m.err.Error())
	case m.run != nil || m.sending:
		status = m.spinner.View() + " " + m.styles.status.Render(m.status) + m.styles.help.Render("  esc cancels")
	default:
		status = m.styles.status.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		status,
		m.styles.inputPanel.Render(m.input.View()),
	)
}
