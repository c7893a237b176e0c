// Package tui implements the interactive terminal interface. A single
// Bubble Tea model drives two modes: semantic search over the knowledge
// base, and role-flavoured question answering.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/curio-labs/curio-cli/internal/adapters/driving/tui/keymap"
	"github.com/curio-labs/curio-cli/internal/adapters/driving/tui/styles"
	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driving"
)

// Mode selects what pressing enter does.
type Mode int

// Available modes.
const (
	// ModeSearch retrieves ranked chunks for the query.
	ModeSearch Mode = iota

	// ModeAsk generates a grounded answer for the query.
	ModeAsk
)

// String returns a short label for the mode.
func (m Mode) String() string {
	if m == ModeAsk {
		return "ask"
	}
	return "search"
}

// Ports holds the driving ports the TUI runs against.
type Ports struct {
	// Knowledge serves search. Required.
	Knowledge driving.KnowledgeService

	// Answers serves ask mode. Optional; ask mode reports an error
	// without it.
	Answers driving.AnswerService
}

// App is the Bubble Tea model for the whole TUI.
type App struct {
	ports  *Ports
	ctx    context.Context
	keys   *keymap.KeyMap
	styles *styles.Styles

	input    textinput.Model
	viewport viewport.Model

	mode   Mode
	role   string
	topK   int
	status string
	ready  bool
	busy   bool
}

// searchDoneMsg carries search results back into the model.
type searchDoneMsg struct {
	query   string
	results []domain.SearchResult
}

// answerDoneMsg carries a generated answer back into the model.
type answerDoneMsg struct {
	answer *domain.Answer
}

// queryFailedMsg carries a failed query back into the model.
type queryFailedMsg struct {
	err error
}

// NewApp creates the TUI model. The knowledge port is required.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil || ports.Knowledge == nil {
		return nil, errors.New("tui: knowledge service is required")
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		keys:     keymap.DefaultKeyMap(),
		styles:   styles.DefaultStyles(),
		input:    ti,
		viewport: viewport.New(0, 0),
		role:     string(domain.RoleDefault),
		topK:     domain.DefaultTopK,
		status:   "Ready. Tab switches between search and ask.",
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) {
	if ctx != nil {
		a.ctx = ctx
	}
}

// SetRole sets the answer role used in ask mode.
func (a *App) SetRole(role string) {
	if role != "" {
		a.role = role
	}
}

// SetTopK sets how many results each query retrieves.
func (a *App) SetTopK(topK int) {
	if topK > 0 {
		a.topK = topK
	}
}

// Init starts the text input cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key, window and query-completion events.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.ready = true
		a.resize(msg.Width, msg.Height)
		return a, nil

	case searchDoneMsg:
		a.busy = false
		if len(msg.results) == 0 {
			a.status = fmt.Sprintf("No results for %q", msg.query)
			a.viewport.SetContent(a.styles.Muted.Render("No results."))
			return a, nil
		}
		a.status = fmt.Sprintf("%d results for %q", len(msg.results), msg.query)
		a.viewport.SetContent(a.renderResults(msg.results))
		a.viewport.GotoTop()
		return a, nil

	case answerDoneMsg:
		a.busy = false
		a.status = fmt.Sprintf("Answer for %q", msg.answer.Query)
		a.viewport.SetContent(a.renderAnswer(msg.answer))
		a.viewport.GotoTop()
		return a, nil

	case queryFailedMsg:
		a.busy = false
		a.status = "Error"
		a.viewport.SetContent(a.styles.Error.Render(msg.err.Error()))
		return a, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, a.keys.Quit):
			return a, tea.Quit

		case keymap.Matches(keyStr, a.keys.ToggleMode):
			if a.mode == ModeSearch {
				a.mode = ModeAsk
			} else {
				a.mode = ModeSearch
			}
			a.status = fmt.Sprintf("Mode: %s", a.mode)
			return a, nil

		case keymap.Matches(keyStr, a.keys.Clear):
			a.input.SetValue("")
			return a, nil

		case keymap.Matches(keyStr, a.keys.Up):
			a.viewport.ScrollUp(1)
			return a, nil

		case keymap.Matches(keyStr, a.keys.Down):
			a.viewport.ScrollDown(1)
			return a, nil

		case keymap.Matches(keyStr, a.keys.Submit):
			return a, a.submit()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit runs the current query as an async command.
func (a *App) submit() tea.Cmd {
	query := strings.TrimSpace(a.input.Value())
	if query == "" || a.busy {
		return nil
	}

	a.busy = true
	a.status = "Working..."

	ctx := a.ctx
	mode := a.mode
	role := a.role
	topK := a.topK

	return func() tea.Msg {
		if mode == ModeAsk {
			if a.ports.Answers == nil {
				return queryFailedMsg{err: errors.New("answer service not configured")}
			}
			answer, err := a.ports.Answers.Answer(ctx, query, role, topK)
			if err != nil {
				return queryFailedMsg{err: err}
			}
			return answerDoneMsg{answer: answer}
		}

		results, err := a.ports.Knowledge.Search(ctx, query, topK)
		if err != nil {
			return queryFailedMsg{err: err}
		}
		return searchDoneMsg{query: query, results: results}
	}
}

func (a *App) resize(width, height int) {
	_, rh := a.styles.ResultBox.GetFrameSize()
	_, qh := a.styles.InputField.GetFrameSize()
	reserved := 2 + qh + 1 // title, status, input frame, help line
	vh := height - reserved - rh
	if vh < 3 {
		vh = 3
	}
	vw := width - 4
	if vw < 20 {
		vw = 20
	}
	a.viewport.Width = vw
	a.viewport.Height = vh
	a.input.Width = vw
}

// View renders the full layout.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	title := a.styles.Title.Render("Curio") +
		a.styles.Muted.Render(fmt.Sprintf("  [%s mode]", a.mode))
	box := a.styles.ResultBox.Render(a.viewport.View())
	input := a.styles.InputField.Render(a.input.View())
	status := a.styles.Normal.Render(a.status)
	help := a.styles.Help.Render(a.helpLine())

	return title + "\n" + box + "\n" + input + "\n" + status + "\n" + help
}

func (a *App) helpLine() string {
	parts := make([]string, 0, 8)
	for _, b := range a.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (a *App) renderResults(results []domain.SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		source := r.DocumentID
		if s, ok := r.Metadata["source"].(string); ok && s != "" {
			source = s
		}
		header := fmt.Sprintf("[%d] %s (score %.4f)", i+1, source, r.Score)
		sb.WriteString(a.styles.Highlight.Render(header))
		sb.WriteString("\n")
		sb.WriteString(a.styles.Normal.Render(strings.TrimSpace(r.Text)))
		if i < len(results)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func (a *App) renderAnswer(answer *domain.Answer) string {
	var sb strings.Builder
	sb.WriteString(a.styles.Normal.Render(strings.TrimSpace(answer.Text)))
	if len(answer.Context) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(a.styles.Muted.Render("Sources:"))
		for _, r := range answer.Context {
			source := r.DocumentID
			if s, ok := r.Metadata["source"].(string); ok && s != "" {
				source = s
			}
			sb.WriteString("\n")
			sb.WriteString(a.styles.Muted.Render(fmt.Sprintf("  - %s (score %.4f)", source, r.Score)))
		}
	}
	return sb.String()
}
