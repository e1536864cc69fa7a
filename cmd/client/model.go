package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	braindump "github.com/garysheng/braindump"
	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/keystore"
	"github.com/garysheng/braindump/recorder"
	"github.com/garysheng/braindump/store"
)

// controller is the part of *recorder.Controller the TUI drives.
type controller interface {
	HandleKey(ctx context.Context, k recorder.Key) error
}

// Model is the root bubbletea model for the braindump client.
type Model struct {
	ctx  context.Context
	api  *apiClient
	keys credentials
	ctrl controller
	nav  *navigator
	gate *draft.Gate

	// Session
	session *store.Session
	feed    *feed
	quitting bool

	// Recording state
	state     recorder.State
	level     float64
	warming   bool
	remaining time.Duration

	// Draft
	format     int
	provider   draft.Provider
	custom     textinput.Model
	editing    bool
	draft      string
	generating bool
	spinner    spinner.Model

	// Status
	info    string
	errText string

	exportDir string
	width     int
}

// NewModel creates the model. The session is loaded by Init.
func NewModel(ctx context.Context, api *apiClient, keys credentials, ctrl controller, nav *navigator) Model {
	custom := textinput.New()
	custom.Placeholder = "Describe the format you want"
	custom.CharLimit = 500
	custom.Width = 60

	return Model{
		ctx:       ctx,
		api:       api,
		keys:      keys,
		ctrl:      ctrl,
		nav:       nav,
		gate:      &draft.Gate{},
		provider:  draft.ProviderClaude,
		custom:    custom,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ProcessingDotStyle)),
		exportDir: ".",
	}
}

func (m Model) Init() tea.Cmd {
	return loadSessionCmd(m.ctx, m.api, m.keys)
}

// loadSessionCmd resumes the most recent session or starts a new one with
// the default questions. A stored LLM key lets the server generate a title.
func loadSessionCmd(ctx context.Context, api *apiClient, keys credentials) tea.Cmd {
	return func() tea.Msg {
		sess, err := api.latestSession(ctx)
		if err == nil {
			return sessionLoadedMsg{session: sess}
		}
		if !errors.Is(err, errNoSession) {
			return errMsg{err: fmt.Errorf("load session: %w", err)}
		}

		req := braindump.CreateSessionRequest{}
		if key, err := keys.Get(keystore.Anthropic); err == nil {
			req.APIKey, req.Model = key, draft.ProviderClaude
		} else if key, err := keys.Get(keystore.Gemini); err == nil {
			req.APIKey, req.Model = key, draft.ProviderGemini
		}
		sess, err = api.createSession(ctx, req)
		if err != nil {
			return errMsg{err: fmt.Errorf("create session: %w", err)}
		}
		return sessionLoadedMsg{session: sess}
	}
}

func openFeedCmd(ctx context.Context, url string) tea.Cmd {
	return func() tea.Msg {
		f, err := dialFeed(ctx, url)
		if err != nil {
			return feedErrMsg{err: err}
		}
		return feedOpenedMsg{feed: f}
	}
}

func readFeedCmd(f *feed) tea.Cmd {
	return func() tea.Msg {
		ev, err := f.Next()
		if err != nil {
			return feedErrMsg{err: err}
		}
		return feedEventMsg{event: ev}
	}
}

// handleRecorderKeyCmd runs the controller off the update loop, since
// starting a take opens the microphone.
func handleRecorderKeyCmd(ctx context.Context, ctrl controller, k recorder.Key) tea.Cmd {
	return func() tea.Msg {
		// Failures are reported through the notifier.
		_ = ctrl.HandleKey(ctx, k)
		return keyHandledMsg{}
	}
}

func generateCmd(ctx context.Context, api *apiClient, gate *draft.Gate, sessionID string, req draft.Request) tea.Cmd {
	return func() tea.Msg {
		defer gate.Release()

		res, err := api.generateDraft(ctx, req)
		if err != nil {
			return draftDoneMsg{err: err}
		}
		err = api.saveDraft(ctx, sessionID, braindump.SaveDraftRequest{
			Model:        req.Provider,
			Format:       req.Format,
			CustomFormat: req.CustomFormat,
			Settings:     req.Settings,
			Content:      res.Content,
			Prompt:       res.Prompt,
		})
		if err != nil {
			return draftDoneMsg{result: res, err: fmt.Errorf("draft generated but not saved: %w", err)}
		}
		return draftDoneMsg{result: res}
	}
}

func exportCmd(ctx context.Context, api *apiClient, sess *store.Session, dir string) tea.Cmd {
	return func() tea.Msg {
		text, err := api.export(ctx, sess.ID)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := filepath.Join(dir, braindump.ExportFilename(sess))
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

func deleteResponseCmd(ctx context.Context, api *apiClient, sessionID, questionID, responseID string) tea.Cmd {
	return func() tea.Msg {
		if err := api.deleteResponse(ctx, sessionID, questionID, responseID); err != nil {
			return errMsg{err: fmt.Errorf("delete response: %w", err)}
		}
		return infoMsg{text: "Response deleted"}
	}
}

func clearInfoCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearInfoMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sessionLoadedMsg:
		m.session = msg.session
		m.nav.Load(msg.session)
		return m, openFeedCmd(m.ctx, feedURL(m.api.baseURL, m.api.userID, msg.session.ID))

	case feedOpenedMsg:
		if m.quitting {
			msg.feed.Close()
			return m, nil
		}
		m.feed = msg.feed
		return m, readFeedCmd(m.feed)

	case feedEventMsg:
		return m.handleEvent(msg.event)

	case feedErrMsg:
		if m.quitting {
			return m, nil
		}
		m.feed = nil
		m.errText = "Live updates stopped: " + msg.err.Error()
		return m, nil

	case stateMsg:
		m.state = msg.state
		if m.state == recorder.Idle {
			m.level = 0
			m.warming = false
			m.remaining = 0
		}
		return m, nil

	case levelMsg:
		m.level = msg.level
		return m, nil

	case warmUpMsg:
		m.warming = msg.on
		return m, nil

	case remainingMsg:
		m.remaining = msg.remaining
		return m, nil

	case infoMsg:
		m.info = msg.text
		return m, clearInfoCmd()

	case errMsg:
		m.errText = msg.err.Error()
		return m, nil

	case clearInfoMsg:
		m.info = ""
		return m, nil

	case keyHandledMsg:
		return m, nil

	case draftDoneMsg:
		m.generating = false
		if msg.result.Content != "" {
			m.draft = msg.result.Content
		}
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.info = "Draft saved"
		return m, clearInfoCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.errText = "Export failed: " + msg.err.Error()
			return m, nil
		}
		m.info = "Exported to " + msg.path
		return m, clearInfoCmd()

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		var cmd tea.Cmd
		m.custom, cmd = m.custom.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEvent(ev braindump.SessionEvent) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case braindump.EventSnapshot:
		if ev.Session != nil {
			m.session = ev.Session
			m.nav.Load(ev.Session)
		}
		return m, readFeedCmd(m.feed)
	case braindump.EventDeleted:
		// The server closes the feed after this event.
		if m.feed != nil {
			m.feed.Close()
			m.feed = nil
		}
		m.session = nil
		m.draft = ""
		m.info = "Session was deleted, starting a new one"
		return m, tea.Batch(loadSessionCmd(m.ctx, m.api, m.keys), clearInfoCmd())
	}
	return m, readFeedCmd(m.feed)
}

// recorderKey maps a terminal key onto the controller's key names. Shift,
// ctrl and alt all count as a held modifier, which the controller ignores.
func recorderKey(msg tea.KeyMsg) (recorder.Key, bool) {
	var k recorder.Key
	switch msg.Type {
	case tea.KeySpace:
		k.Name = recorder.KeyToggle
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Runes[0] != ' ' {
			return k, false
		}
		k.Name = recorder.KeyToggle
	case tea.KeyCtrlAt:
		k.Name, k.Modifier = recorder.KeyToggle, true
	case tea.KeyLeft:
		k.Name = recorder.KeyPrevious
	case tea.KeyRight:
		k.Name = recorder.KeyNext
	case tea.KeyShiftLeft, tea.KeyCtrlLeft, tea.KeyCtrlShiftLeft:
		k.Name, k.Modifier = recorder.KeyPrevious, true
	case tea.KeyShiftRight, tea.KeyCtrlRight, tea.KeyCtrlShiftRight:
		k.Name, k.Modifier = recorder.KeyNext, true
	default:
		return k, false
	}
	if msg.Alt {
		k.Modifier = true
	}
	return k, true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case KeyEnter, KeyEsc:
			m.editing = false
			m.custom.Blur()
			return m, nil
		case KeyCtrlC:
		default:
			var cmd tea.Cmd
			m.custom, cmd = m.custom.Update(msg)
			return m, cmd
		}
	}

	if k, ok := recorderKey(msg); ok {
		if m.session == nil {
			return m, nil
		}
		return m, handleRecorderKeyCmd(m.ctx, m.ctrl, k)
	}

	switch msg.String() {
	case KeyQuit, KeyCtrlC:
		// The controller is closed by main once the program has stopped,
		// since its goroutines may be blocked sending to this loop.
		m.quitting = true
		if m.feed != nil {
			m.feed.Close()
		}
		return m, tea.Quit

	case KeyAutoAdvance:
		enabled := !preferences{keys: m.keys}.AutoAdvance()
		if err := m.keys.SetAutoAdvance(enabled); err != nil {
			m.errText = "Could not save preference: " + err.Error()
			return m, nil
		}
		if enabled {
			m.info = "Auto-advance on"
		} else {
			m.info = "Auto-advance off"
		}
		return m, clearInfoCmd()

	case KeyCycleFormat:
		m.format = (m.format + 1) % len(draft.Formats)
		return m, nil

	case KeyCycleProvider:
		if m.provider == draft.ProviderClaude {
			m.provider = draft.ProviderGemini
		} else {
			m.provider = draft.ProviderClaude
		}
		return m, nil

	case KeyCustomFormat:
		m.editing = true
		return m, m.custom.Focus()

	case KeyGenerate:
		return m.generate()

	case KeyExport:
		if m.session == nil {
			return m, nil
		}
		return m, exportCmd(m.ctx, m.api, m.session, m.exportDir)

	case KeyDeleteResponse:
		if m.session == nil || m.state != recorder.Idle {
			return m, nil
		}
		q, ok := m.currentQuestion()
		if !ok {
			return m, nil
		}
		latest, ok := q.Latest()
		if !ok {
			return m, nil
		}
		return m, deleteResponseCmd(m.ctx, m.api, m.session.ID, q.ID, latest.ID)
	}

	return m, nil
}

// generate starts a draft unless one is already running. The request is
// validated locally first so nothing is sent without a key or a custom
// format description.
func (m Model) generate() (tea.Model, tea.Cmd) {
	if m.session == nil || m.gate.Busy() {
		return m, nil
	}

	req, err := m.draftRequest()
	if err != nil {
		m.errText = err.Error()
		return m, nil
	}
	if !m.gate.Acquire() {
		return m, nil
	}

	m.generating = true
	m.errText = ""
	return m, tea.Batch(generateCmd(m.ctx, m.api, m.gate, m.session.ID, req), m.spinner.Tick)
}

func (m Model) draftRequest() (draft.Request, error) {
	keyProvider := keystore.Anthropic
	if m.provider == draft.ProviderGemini {
		keyProvider = keystore.Gemini
	}
	apiKey, err := m.keys.Get(keyProvider)
	if err != nil {
		return draft.Request{}, fmt.Errorf("no %s key stored, run: client keys set %s <key>", keyProvider, keyProvider)
	}

	pairs := store.AnsweredPairs(m.session)
	if len(pairs) == 0 {
		return draft.Request{}, errors.New("record at least one response first")
	}

	req := draft.Request{
		APIKey:       apiKey,
		Provider:     m.provider,
		Responses:    pairs,
		Format:       draft.Formats[m.format],
		CustomFormat: strings.TrimSpace(m.custom.Value()),
	}
	if err := req.Validate(); err != nil {
		if req.Format == draft.FormatCustom && req.CustomFormat == "" {
			return draft.Request{}, errors.New("describe the custom format first (press c)")
		}
		return draft.Request{}, err
	}
	return req, nil
}

func (m Model) currentQuestion() (store.Question, bool) {
	if m.session == nil {
		return store.Question{}, false
	}
	id, _ := m.nav.Current()
	for _, q := range m.session.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return store.Question{}, false
}

func (m Model) View() string {
	if m.session == nil {
		if m.errText != "" {
			return ErrorTextStyle.Render(m.errText) + "\n\n" + m.renderFooter()
		}
		return "Loading session..."
	}

	width := m.width
	if width == 0 {
		width = 80
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", width)))
	sections = append(sections, m.renderQuestion(width))
	sections = append(sections, "")
	sections = append(sections, m.renderStatusBar())

	if m.info != "" {
		sections = append(sections, InfoStyle.Render(m.info))
	}
	if m.errText != "" {
		sections = append(sections, ErrorTextStyle.Render(m.errText))
	}

	sections = append(sections, DividerStyle.Render(strings.Repeat("─", width)))
	sections = append(sections, m.renderDraftBar())
	if m.editing {
		sections = append(sections, m.custom.View())
	}
	if m.draft != "" {
		sections = append(sections, DraftStyle.Width(width-4).Render(m.draft))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("BRAINDUMP")
	if m.session.Title != "" {
		title += DimStyle.Render(" · " + m.session.Title)
	}
	if m.feed == nil {
		title += DimStyle.Render(" (offline)")
	}
	return title
}

func (m Model) renderQuestion(width int) string {
	q, ok := m.currentQuestion()
	if !ok {
		return DimStyle.Render("This session has no questions.")
	}

	header := DimStyle.Render(fmt.Sprintf("Question %d/%d", m.nav.Index()+1, len(m.session.Questions)))
	lines := []string{header, QuestionStyle.Render(q.Text)}

	latest, ok := q.Latest()
	if !ok {
		lines = append(lines, DimStyle.Render("No response yet"))
		return strings.Join(lines, "\n")
	}
	for _, l := range wrapText(latest.Transcription, width-2) {
		lines = append(lines, ResponseStyle.Render(l))
	}
	if n := len(q.Responses); n > 1 {
		lines = append(lines, DimStyle.Render(fmt.Sprintf("(%d earlier takes)", n-1)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	switch m.state {
	case recorder.Recording:
		status := RecordingDotStyle.Render("● REC") + " " + StatusStyle.Render(formatRemaining(m.remaining))
		if m.warming {
			return status + "  " + DimStyle.Render("warming up...")
		}
		return status + "  " + renderLevelMeter(m.level)
	case recorder.Processing:
		return ProcessingDotStyle.Render("◐ Transcribing...")
	default:
		return IdleDotStyle.Render("○ Ready")
	}
}

func renderLevelMeter(level float64) string {
	const barLen = 20
	filled := min(int(level*barLen), barLen)
	return LevelGreenStyle.Render(strings.Repeat("█", filled)) +
		LevelGrayStyle.Render(strings.Repeat("░", barLen-filled))
}

func formatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d left", secs/60, secs%60)
}

func (m Model) renderDraftBar() string {
	format := string(draft.Formats[m.format])
	if draft.Formats[m.format] == draft.FormatCustom {
		if v := strings.TrimSpace(m.custom.Value()); v != "" {
			format += ": " + truncate(v, 40)
		}
	}
	bar := StatusStyle.Render("Draft ") + DimStyle.Render(format+" · "+string(m.provider))
	if m.generating {
		bar += "  " + m.spinner.View() + DimStyle.Render(" generating")
	}
	return bar
}

func (m Model) renderFooter() string {
	var parts []string
	if m.state == recorder.Recording {
		parts = append(parts, FooterKeyStyle.Render("Space")+FooterDescStyle.Render(" Stop"))
	} else {
		parts = append(parts, FooterKeyStyle.Render("Space")+FooterDescStyle.Render(" Record"))
	}
	parts = append(parts, FooterKeyStyle.Render("←→")+FooterDescStyle.Render(" Question"))

	auto := "off"
	if preferences{keys: m.keys}.AutoAdvance() {
		auto = "on"
	}
	parts = append(parts, FooterKeyStyle.Render(KeyAutoAdvance)+FooterDescStyle.Render(" Auto "+auto))
	parts = append(parts, FooterKeyStyle.Render(KeyCycleFormat+"/"+KeyCycleProvider+"/"+KeyCustomFormat)+FooterDescStyle.Render(" Draft opts"))
	parts = append(parts, FooterKeyStyle.Render(KeyGenerate)+FooterDescStyle.Render(" Generate"))
	parts = append(parts, FooterKeyStyle.Render(KeyExport)+FooterDescStyle.Render(" Export"))
	parts = append(parts, FooterKeyStyle.Render(KeyDeleteResponse)+FooterDescStyle.Render(" Delete take"))
	parts = append(parts, FooterKeyStyle.Render(KeyQuit)+FooterDescStyle.Render(" Quit"))
	return strings.Join(parts, "  ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= width:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}
