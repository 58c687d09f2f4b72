package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rulebound/adventure/internal/services"
	"github.com/rulebound/adventure/pkg/engine"
)

const (
	AgentName       = "GM"
	PlaceHolderText = "What do you do?"
	SaveSlotName    = "quicksave"
)

// GameUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	eng          *engine.Engine
	store        services.Storage
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	pending      string // player input awaiting a GM reply

	// Transcript of displayed lines, kept unwrapped so a resize can
	// reflow everything.
	lines []displayLine

	lastNarration string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type displayLine struct {
	speaker string // "", "player" or "gm"
	text    string
}

type turnResultMsg struct {
	input  string
	result *engine.TurnResult
	err    error
}

type saveDoneMsg struct{ err error }

type loadDoneMsg struct {
	restored bool
	err      error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	gmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewGameUI(eng *engine.Engine, store services.Storage) GameUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := GameUI{
		eng:          eng,
		store:        store,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
	ui.lines = append(ui.lines, displayLine{speaker: "gm", text: eng.Intro()})
	ui.lastNarration = eng.Intro()
	return ui
}

func (m GameUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(m.lastNarration); err == nil {
				m.lines = append(m.lines, displayLine{text: "Copied last reply to clipboard."})
				m.writeChatContent()
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.pending = input
			m.progressTick = 0
			m.writeChatContent()

			return m, tea.Batch(m.processTurn(input), progressTick())
		}

	case turnResultMsg:
		m.loading = false
		m.pending = ""
		if msg.err != nil {
			m.err = msg.err
			m.lines = append(m.lines,
				displayLine{speaker: "player", text: msg.input},
				displayLine{text: errorStyle.Render("Error: " + msg.err.Error())})
			m.writeChatContent()
			return m, nil
		}

		m.lines = append(m.lines,
			displayLine{speaker: "player", text: msg.input},
			displayLine{speaker: "gm", text: msg.result.Narration})
		m.lastNarration = msg.result.Narration

		if out := msg.result.Outcome; out != nil {
			banner := "DEFEAT: " + out.Reason
			if out.Won {
				banner = "VICTORY: " + out.Reason
			}
			m.lines = append(m.lines, displayLine{text: titleStyle.Render(banner)})
		}

		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

		// Autosave after every resolved turn
		if !msg.result.Handled && !msg.result.Rejected {
			return m, m.autosave()
		}
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.lines = append(m.lines, displayLine{text: errorStyle.Render("Save failed: " + msg.err.Error())})
		} else {
			m.lines = append(m.lines, displayLine{text: noticeStyle.Render("Game saved.")})
		}
		m.writeChatContent()
		return m, nil

	case loadDoneMsg:
		switch {
		case msg.err != nil:
			m.lines = append(m.lines, displayLine{text: errorStyle.Render("Load failed: " + msg.err.Error())})
		case !msg.restored:
			m.lines = append(m.lines, displayLine{text: noticeStyle.Render("No saved game found.")})
		default:
			m.lines = append(m.lines, displayLine{text: noticeStyle.Render("Game loaded.")})
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.writeChatContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m GameUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /save - Save your game
• /load - Load your saved game
• /quit - Quit game
• Ctrl+Y - Copy last reply

How to play:
• Type your actions and press Enter
• look, inventory and status answer instantly
• Everything else goes to the GM
`
		m.lines = append(m.lines, displayLine{text: titleStyle.Render("Help:") + helpText})
		m.writeChatContent()

	case "/save":
		return m, m.saveSlot()

	case "/load":
		return m, m.loadSlot()

	case "/quit":
		m.showQuitModal = true
	}

	return m, nil
}

// writeChatContent rebuilds the viewport from the display lines at the
// current width.
func (m *GameUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.eng.Rules().Name)) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, line := range m.lines {
		switch line.speaker {
		case "player":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(line.text, chatWidth-6) + "\n\n")
		case "gm":
			prefix := gmStyle.Render(AgentName + ": ")
			content.WriteString(prefix + wordwrap.String(line.text, chatWidth-len(AgentName)-2) + "\n\n")
		default:
			content.WriteString(wordwrap.String(line.text, chatWidth) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(userStyle.Render("You: ") + wordwrap.String(m.pending, chatWidth-6) + "\n\n")
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *GameUI) writeMetadata() string {
	gs := m.eng.State()
	rs := m.eng.Rules()

	var content strings.Builder
	content.WriteString(titleStyle.Render("GAME STATE") + "\n\n")

	content.WriteString("Location:\n")
	content.WriteString(rs.DisplayName(gs.Location) + "\n\n")

	content.WriteString(fmt.Sprintf("HP: %d / %d\n", gs.HP, gs.MaxHP))
	content.WriteString(fmt.Sprintf("Turn: %d", gs.Turn))
	if rs.EndConditions.MaxTurns > 0 {
		content.WriteString(fmt.Sprintf(" of %d", rs.EndConditions.MaxTurns))
	}
	content.WriteString("\n\n")

	content.WriteString("Inventory:\n")
	if len(gs.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range gs.Inventory {
			content.WriteString("• " + rs.DisplayName(item) + "\n")
		}
	}
	content.WriteString("\n")

	if len(gs.Flags) > 0 {
		flags := make([]string, 0, len(gs.Flags))
		for name := range gs.Flags {
			flags = append(flags, name)
		}
		sort.Strings(flags)
		content.WriteString("Flags:\n")
		for _, name := range flags {
			content.WriteString("• " + name + "\n")
		}
		content.WriteString("\n")
	}

	if gs.IsEnded {
		content.WriteString(noticeStyle.Render("Game over") + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /save: Save\n")

	return content.String()
}

func (m GameUI) processTurn(input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		res, err := m.eng.ProcessTurn(ctx, input)
		return turnResultMsg{input: input, result: res, err: err}
	}
}

func (m GameUI) autosave() tea.Cmd {
	return func() tea.Msg {
		gs := m.eng.State()
		err := m.store.SaveGameState(context.Background(), gs.ID, gs)
		if err != nil {
			return saveDoneMsg{err: err}
		}
		return nil // silent on success
	}
}

func (m GameUI) saveSlot() tea.Cmd {
	return func() tea.Msg {
		gs := m.eng.State()
		if slots, ok := m.store.(services.SlotStorage); ok {
			return saveDoneMsg{err: slots.SaveSlot(context.Background(), SaveSlotName, gs)}
		}
		return saveDoneMsg{err: m.store.SaveGameState(context.Background(), gs.ID, gs)}
	}
}

func (m GameUI) loadSlot() tea.Cmd {
	return func() tea.Msg {
		slots, ok := m.store.(services.SlotStorage)
		if !ok {
			return loadDoneMsg{err: fmt.Errorf("named saves need file storage")}
		}
		gs, err := slots.LoadSlot(context.Background(), SaveSlotName)
		if err != nil {
			return loadDoneMsg{err: err}
		}
		if gs == nil {
			return loadDoneMsg{restored: false}
		}
		if err := m.eng.RestoreState(gs); err != nil {
			return loadDoneMsg{err: err}
		}
		return loadDoneMsg{restored: true}
	}
}

func (m GameUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m GameUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m GameUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m GameUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
