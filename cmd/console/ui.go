package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gcterminus/engine/internal/handlers"
	"github.com/gcterminus/engine/pkg/ceremony"
	"github.com/gcterminus/engine/pkg/dialogue"
	"github.com/gcterminus/engine/pkg/session"
	"github.com/gcterminus/engine/pkg/state"
	"github.com/gcterminus/engine/pkg/trust"
)

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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	insightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Italic(true)

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

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.AmericanEnglish)

// displayName turns a snake_case character ID into a display name.
func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

type transcriptEntry struct {
	speaker string // empty for player/system lines
	text    string
	player  bool
	insight bool
}

// ConsoleUI is the BubbleTea model that runs the play-through client.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	sess         *session.Session
	chatViewport viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	characterID string
	node        *handlers.EvaluateResponse
	selected    int
	transcript  []transcriptEntry
	statusLine  string

	// Character selection (hub) state
	showCharacterModal bool
	characters         []string
	selectedCharacter  int

	// Ceremony state
	showCeremonyModal bool
	ceremony          *ceremony.Ceremony
	selectedResponse  int

	// Quit confirmation state
	showQuitModal bool
}

type nodeMsg struct {
	resp *handlers.EvaluateResponse
	err  error
}

type chooseMsg struct {
	resp *handlers.ChooseResponse
	err  error
}

type hubMsg struct {
	resp *handlers.HubResponse
	err  error
}

type ceremonyDoneMsg struct {
	sess *session.Session
	err  error
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, sess *session.Session) ConsoleUI {
	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	var characters []string
	for id := range sess.Game.Characters {
		characters = append(characters, id)
	}
	sort.Strings(characters)

	return ConsoleUI{
		config:             cfg,
		client:             client,
		sess:               sess,
		chatViewport:       chatVp,
		metaViewport:       metaVp,
		characters:         characters,
		showCharacterModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showCeremonyModal {
		return m.updateCeremonyModal(msg)
	}
	if m.showCharacterModal {
		return m.updateCharacterModal(msg)
	}

	var vpCmd, mvCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc:
			// Back to the hub.
			m.showCharacterModal = true
			m.node = nil
			return m, m.returnToHub()
		case tea.KeyUp:
			if m.node != nil && m.selected > 0 {
				m.selected--
				m.writeChatContent()
			}
		case tea.KeyDown:
			if m.node != nil && m.selected < len(m.node.Node.Choices)-1 {
				m.selected++
				m.writeChatContent()
			}
		case tea.KeyCtrlY:
			m.statusLine = m.copyTranscript()
			m.writeChatContent()
		case tea.KeyEnter:
			if m.loading || m.node == nil || len(m.node.Node.Choices) == 0 {
				return m, nil
			}
			chosen := m.node.Node.Choices[m.selected]
			if !chosen.Enabled {
				m.statusLine = chosen.Reason
				m.writeChatContent()
				return m, nil
			}
			m.statusLine = ""
			m.transcript = append(m.transcript, transcriptEntry{text: chosen.Choice.Text, player: true})
			m.loading = true
			m.writeChatContent()
			return m, m.choose(m.node.Node.NodeID, chosen.Choice.ChoiceID)
		}

	case nodeMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			return m, nil
		}
		m.err = nil
		m.node = msg.resp
		m.selected = 0
		m.transcript = append(m.transcript, transcriptEntry{
			speaker: msg.resp.Node.Speaker,
			text:    msg.resp.Node.Content.Text,
		})
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		if len(msg.resp.Node.Choices) == 0 {
			// Terminal node; return to the hub after showing it.
			m.showCharacterModal = true
			return m, m.returnToHub()
		}
		return m, nil

	case chooseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			return m, nil
		}
		m.err = nil
		m.sess = msg.resp.Session
		for _, c := range msg.resp.Outcome.NewCombinations {
			m.transcript = append(m.transcript, transcriptEntry{text: "✦ " + c.Insight, insight: true})
		}
		m.appendModule(msg.resp.Outcome.Module)
		m.metaViewport.SetContent(m.writeMetadata())
		if msg.resp.Outcome.Ceremony != nil {
			m.ceremony = msg.resp.Outcome.Ceremony
			m.selectedResponse = 0
			m.showCeremonyModal = true
		}
		if msg.resp.Outcome.NextNodeID == "" {
			m.node = nil
			m.showCharacterModal = true
			m.writeChatContent()
			return m, m.returnToHub()
		}
		m.loading = true
		return m, m.evaluate(msg.resp.Outcome.NextNodeID)
	}

	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 10
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.ready = true
}

func (m ConsoleUI) evaluate(nodeID string) tea.Cmd {
	characterID := m.characterID
	return func() tea.Msg {
		resp, err := evaluateNode(m.client, m.config.APIBaseURL, m.sess.ID(), characterID, nodeID)
		return nodeMsg{resp, err}
	}
}

func (m ConsoleUI) choose(nodeID, choiceID string) tea.Cmd {
	characterID := m.characterID
	return func() tea.Msg {
		resp, err := chooseChoice(m.client, m.config.APIBaseURL, m.sess.ID(), characterID, nodeID, choiceID)
		return chooseMsg{resp, err}
	}
}

func (m ConsoleUI) returnToHub() tea.Cmd {
	return func() tea.Msg {
		resp, err := hubReturn(m.client, m.config.APIBaseURL, m.sess.ID())
		return hubMsg{resp, err}
	}
}

// appendModule writes a floating-module interlude into the transcript.
func (m *ConsoleUI) appendModule(mod *dialogue.FloatingModule) {
	if mod == nil || mod.Node == nil {
		return
	}
	content := dialogue.ResolveContent(mod.Node, m.sess.Game)
	m.transcript = append(m.transcript, transcriptEntry{speaker: mod.Node.Speaker, text: content.Text})
}

func (m ConsoleUI) completePendingCeremony(responseID string) tea.Cmd {
	return func() tea.Msg {
		sess, err := completeCeremony(m.client, m.config.APIBaseURL, m.sess.ID(), responseID)
		return ceremonyDoneMsg{sess, err}
	}
}

// copyTranscript puts the plain-text transcript on the system clipboard.
func (m ConsoleUI) copyTranscript() string {
	var lines []string
	for _, e := range m.transcript {
		switch {
		case e.player:
			lines = append(lines, "You: "+e.text)
		case e.speaker != "":
			lines = append(lines, displayName(e.speaker)+": "+e.text)
		default:
			lines = append(lines, e.text)
		}
	}
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		return "Clipboard copy failed: " + err.Error()
	}
	return fmt.Sprintf("Copied %d lines to clipboard", len(lines))
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("GRAND CENTRAL TERMINUS") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, e := range m.transcript {
		switch {
		case e.player:
			content.WriteString(playerStyle.Render("You: ") + wordwrap.String(e.text, chatWidth-6) + "\n\n")
		case e.insight:
			content.WriteString(insightStyle.Render(wordwrap.String(e.text, chatWidth-6)) + "\n\n")
		case e.speaker != "":
			content.WriteString(speakerStyle.Render(displayName(e.speaker)+": ") +
				contentStyle.Render(wordwrap.String(e.text, chatWidth-10)) + "\n\n")
		default:
			content.WriteString(wordwrap.String(e.text, chatWidth-6) + "\n\n")
		}
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.statusLine != "" {
		content.WriteString(disabledStyle.Render(m.statusLine) + "\n\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) renderChoices() string {
	if m.loading {
		return disabledStyle.Render("...")
	}
	if m.node == nil || len(m.node.Node.Choices) == 0 {
		return promptStyle.Render("Esc: back to the station hub")
	}

	var b strings.Builder
	for i, ev := range m.node.Node.Choices {
		line := fmt.Sprintf("  %s", ev.Choice.Text)
		switch {
		case i == m.selected && ev.Enabled:
			line = modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", ev.Choice.Text))
		case i == m.selected:
			line = disabledStyle.Render(fmt.Sprintf("▶ %s (%s)", ev.Choice.Text, ev.Reason))
		case !ev.Enabled:
			line = disabledStyle.Render(fmt.Sprintf("  %s (%s)", ev.Choice.Text, ev.Reason))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("STATION LOG") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(m.sess.ID().String()[:8] + "...\n\n")

	content.WriteString("Trust:\n")
	for _, id := range m.characters {
		t := m.sess.Game.TrustWith(id)
		tone := trust.VoiceToneForTrust(t)
		content.WriteString(fmt.Sprintf("• %s: %d (%s)\n", displayName(id), t, tone))
	}
	content.WriteString("\n")

	content.WriteString("Patterns:\n")
	p := m.sess.Game.Patterns
	dominant := p.Dominant()
	for _, pt := range state.PatternTypes {
		marker := " "
		if pt == dominant {
			marker = "★"
		}
		content.WriteString(fmt.Sprintf("%s %s: %d (%s)\n", marker, pt, p.Get(pt), p.Tier(pt)))
	}
	content.WriteString("\n")

	if n := len(m.sess.Game.GlobalFlags.Sorted()); n > 0 {
		content.WriteString(fmt.Sprintf("Discoveries: %d\n\n", n))
	}

	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓: Select\n")
	content.WriteString("• Enter: Choose\n")
	content.WriteString("• Esc: Station hub\n")
	content.WriteString("• Ctrl+Y: Copy log\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateCharacterModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case nodeMsg, chooseMsg:
		// A late response can still arrive while the hub is open.
		return m, nil

	case hubMsg:
		if msg.err != nil || msg.resp == nil {
			return m, nil
		}
		m.sess = msg.resp.Session
		m.appendModule(msg.resp.Module)
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedCharacter > 0 {
				m.selectedCharacter--
			}
		case tea.KeyDown:
			if m.selectedCharacter < len(m.characters)-1 {
				m.selectedCharacter++
			}
		case tea.KeyEnter:
			if len(m.characters) == 0 {
				return m, nil
			}
			m.characterID = m.characters[m.selectedCharacter]
			m.showCharacterModal = false
			m.loading = true
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())
			return m, m.evaluate("") // start node
		}
	}

	return m, nil
}

func (m ConsoleUI) updateCeremonyModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case hubMsg:
		if msg.err == nil && msg.resp != nil {
			m.sess = msg.resp.Session
			m.appendModule(msg.resp.Module)
		}
		return m, nil

	case ceremonyDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.sess = msg.sess
			m.err = nil
		}
		m.showCeremonyModal = false
		m.ceremony = nil
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedResponse > 0 {
				m.selectedResponse--
			}
		case tea.KeyDown:
			if m.ceremony != nil && m.selectedResponse < len(m.ceremony.Responses)-1 {
				m.selectedResponse++
			}
		case tea.KeyEnter:
			if m.ceremony == nil {
				m.showCeremonyModal = false
				return m, nil
			}
			responseID := ""
			if len(m.ceremony.Responses) > 0 {
				responseID = m.ceremony.Responses[m.selectedResponse].ResponseID
			}
			m.transcript = append(m.transcript, transcriptEntry{text: "※ " + m.ceremony.Title, insight: true})
			return m, m.completePendingCeremony(responseID)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

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
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Station?"))
	content.WriteString("\n\n")
	content.WriteString("Your session is saved; you can return any time.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCharacterModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("The Station Hub"))
	content.WriteString("\n\n")
	content.WriteString("Who do you approach?")
	content.WriteString("\n\n")

	for i, id := range m.characters {
		label := fmt.Sprintf("%s (trust %d)", displayName(id), m.sess.Game.TrustWith(id))
		if i == m.selectedCharacter {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + label))
		} else {
			content.WriteString(modalItemStyle.Render("  " + label))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Esc to quit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCeremonyModal() string {
	if m.width == 0 || m.height == 0 || m.ceremony == nil {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.ceremony.Title))
	content.WriteString("\n\n")
	content.WriteString(wordwrap.String(m.ceremony.Script, 56))
	content.WriteString("\n\n")

	if len(m.ceremony.Responses) == 0 {
		content.WriteString(promptStyle.Render("Press Enter to continue"))
	} else {
		for i, r := range m.ceremony.Responses {
			if i == m.selectedResponse {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + r.Text))
			} else {
				content.WriteString(modalItemStyle.Render("  " + r.Text))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to respond"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showCeremonyModal {
		return m.renderCeremonyModal()
	}
	if m.showCharacterModal {
		return m.renderCharacterModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.renderChoices(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
