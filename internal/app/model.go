package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gijiroku/internal/api"
)

// ActiveView tracks which screen is shown.
type ActiveView int

const (
	ViewHome ActiveView = iota
	ViewNew
)

// DraftPhase tracks the creation workflow on the new-minutes view.
type DraftPhase int

const (
	DraftEmpty DraftPhase = iota
	DraftGenerating
	DraftEditing
	DraftSubmitting
)

// Model is the root bubbletea model for the gijiroku TUI.
type Model struct {
	client *api.Client
	view   ActiveView
	width  int
	height int

	// Home: list and filter
	filter        filterForm
	filterEditing bool
	records       []api.ListItem
	selected      int
	loadingList   bool

	// Home: detail pane
	detail          *api.Detail
	detailFocus     bool
	versionSel      int
	versionExpanded []bool
	history         []api.HistoryEntry
	historyOpen     bool

	// Home: reminder form
	reminderOpen    bool
	reminder        reminderForm
	sendingReminder bool

	// New view
	draft draftForm
	phase DraftPhase

	// Status and errors
	statusText     string
	errorMessage   string
	errorTransient bool
}

// New creates a new Model backed by the given API client.
func New(client *api.Client) Model {
	return Model{
		client:     client,
		filter:     newFilterForm(),
		reminder:   newReminderForm(),
		draft:      newDraftForm(),
		statusText: "読み込み中...",
	}
}

// Init returns the initial command: load the minutes list.
func (m Model) Init() tea.Cmd {
	return loadListCmd(m.client, m.filter.Filter())
}

// writeInFlight reports whether a mutating call is outstanding. Writes
// are serialized; list and detail reads are not.
func (m Model) writeInFlight() bool {
	return m.phase == DraftGenerating || m.phase == DraftSubmitting || m.sendingReminder
}

// loadListCmd fetches the minutes list for the given filter.
func loadListCmd(client *api.Client, f api.Filter) tea.Cmd {
	return func() tea.Msg {
		items, err := client.List(context.Background(), f)
		if err != nil {
			return ListErrorMsg{Err: err}
		}
		return ListLoadedMsg{Items: items}
	}
}

// loadDetailCmd fetches one record with versions and reminders.
func loadDetailCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		d, err := client.Detail(context.Background(), id)
		if err != nil {
			return DetailErrorMsg{Err: err}
		}
		return DetailLoadedMsg{Detail: d}
	}
}

// loadHistoryCmd fetches the per-section diff history of one record.
func loadHistoryCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.History(context.Background(), id)
		if err != nil {
			return HistoryErrorMsg{Err: err}
		}
		return HistoryLoadedMsg{Entries: entries}
	}
}

// generateCmd asks the backend for a draft summary.
func generateCmd(client *api.Client, req api.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		s, err := client.Generate(context.Background(), req)
		if err != nil {
			return GenerateErrorMsg{Err: err}
		}
		return SummaryGeneratedMsg{Summary: s}
	}
}

// saveCmd creates a record, or updates it when id is set.
func saveCmd(client *api.Client, id string, req api.CreateRequest) tea.Cmd {
	return func() tea.Msg {
		var rec api.Record
		var err error
		if id == "" {
			rec, err = client.Create(context.Background(), req)
		} else {
			rec, err = client.Update(context.Background(), id, req)
		}
		if err != nil {
			return SaveErrorMsg{Err: err}
		}
		return RecordSavedMsg{Record: rec}
	}
}

// notifyCmd sends a reminder for the given record.
func notifyCmd(client *api.Client, id string, req api.ReminderRequest) tea.Cmd {
	return func() tea.Msg {
		rem, err := client.Notify(context.Background(), id, req)
		if err != nil {
			return ReminderErrorMsg{Err: err}
		}
		return ReminderSentMsg{Reminder: rem}
	}
}

// scheduleReminderCmd records a reminder without sending it.
func scheduleReminderCmd(client *api.Client, id string, req api.ReminderRequest) tea.Cmd {
	return func() tea.Msg {
		rem, err := client.AddReminder(context.Background(), id, req)
		if err != nil {
			return ReminderErrorMsg{Err: err}
		}
		return ReminderSentMsg{Reminder: rem}
	}
}

// exportPDFCmd downloads one record as PDF into the working directory.
func exportPDFCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		path := "minutes-" + id + ".pdf"
		if err := client.ExportPDF(context.Background(), id, path); err != nil {
			return ExportErrorMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// exportCSVCmd downloads the filtered list as CSV.
func exportCSVCmd(client *api.Client, f api.Filter) tea.Cmd {
	return func() tea.Msg {
		const path = "minutes.csv"
		if err := client.ExportCSV(context.Background(), f, path); err != nil {
			return ExportErrorMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ListLoadedMsg:
		m.loadingList = false
		m.statusText = ""
		m.records = msg.Items
		if m.selected >= len(m.records) {
			m.selected = max(0, len(m.records)-1)
		}
		return m, nil

	case ListErrorMsg:
		m.loadingList = false
		m.statusText = ""
		return m.transientError("一覧取得に失敗しました: " + msg.Err.Error())

	case DetailLoadedMsg:
		d := msg.Detail
		m.detail = &d
		m.detailFocus = true
		m.versionSel = 0
		m.versionExpanded = make([]bool, len(d.Versions))
		m.history = nil
		m.historyOpen = false
		return m, nil

	case DetailErrorMsg:
		return m.transientError("詳細取得に失敗しました: " + msg.Err.Error())

	case HistoryLoadedMsg:
		if m.detail == nil {
			return m, nil
		}
		m.history = msg.Entries
		m.historyOpen = true
		return m, nil

	case HistoryErrorMsg:
		return m.transientError("履歴取得に失敗しました: " + msg.Err.Error())

	case SummaryGeneratedMsg:
		if m.phase != DraftGenerating {
			return m, nil
		}
		m.phase = DraftEditing
		m.draft.ApplySummary(msg.Summary)
		m.draft.Blur()
		m.draft.focus = fieldPurpose
		m.statusText = ""
		return m, m.draft.focusCurrent()

	case GenerateErrorMsg:
		if m.phase != DraftGenerating {
			return m, nil
		}
		// A failed generation leaves no draft behind.
		m.phase = DraftEmpty
		m.draft.ClearSections()
		m.statusText = ""
		return m.transientError("要約生成に失敗しました: " + msg.Err.Error())

	case SaveErrorMsg:
		if m.phase != DraftSubmitting {
			return m, nil
		}
		// The draft stays exactly as submitted.
		m.phase = DraftEditing
		m.statusText = ""
		return m.transientError("保存に失敗しました: " + msg.Err.Error())

	case RecordSavedMsg:
		if m.phase != DraftSubmitting {
			return m, nil
		}
		m.phase = DraftEmpty
		m.draft.Reset()
		m.view = ViewHome
		m.detail = nil
		m.detailFocus = false
		m.statusText = "議事録を保存しました"
		return m, loadListCmd(m.client, m.filter.Filter())

	case ReminderSentMsg:
		m.sendingReminder = false
		m.reminderOpen = false
		m.reminder.Reset()
		if msg.Reminder.Status == "scheduled" {
			m.statusText = "リマインドを登録しました"
		} else {
			m.statusText = "通知を送信しました"
		}
		if m.detail != nil {
			return m, loadDetailCmd(m.client, m.detail.ID)
		}
		return m, nil

	case ReminderErrorMsg:
		// The form stays open with its values intact.
		m.sendingReminder = false
		return m.transientError("通知送信に失敗しました: " + msg.Err.Error())

	case ExportDoneMsg:
		m.statusText = "エクスポートしました: " + msg.Path
		return m, nil

	case ExportErrorMsg:
		return m.transientError("エクスポートに失敗しました: " + msg.Err.Error())

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) transientError(message string) (tea.Model, tea.Cmd) {
	m.errorMessage = message
	m.errorTransient = true
	return m, clearTransientErrorCmd()
}

// handleKey routes key presses by view and focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.view == ViewNew {
		return m.handleNewKey(msg)
	}
	if m.reminderOpen {
		return m.handleReminderKey(msg)
	}
	if m.filterEditing {
		return m.handleFilterKey(msg)
	}
	if m.detailFocus {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.filterEditing = true
		return m, m.filter.Focus()

	case "j", "down":
		if m.selected < len(m.records)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "enter":
		if m.selected < len(m.records) {
			return m, loadDetailCmd(m.client, m.records[m.selected].ID)
		}
		return m, nil

	case "n":
		// Entering the form always starts from a blank draft, even when
		// an earlier edit or cancel left state behind.
		m.view = ViewNew
		m.phase = DraftEmpty
		m.draft.Reset()
		m.statusText = ""
		return m, m.draft.Focus()

	case "e":
		return m, exportCSVCmd(m.client, m.filter.Filter())
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.historyOpen {
			m.historyOpen = false
			return m, nil
		}
		m.detailFocus = false
		m.detail = nil
		m.history = nil
		return m, nil

	case "j", "down":
		if m.detail != nil && m.versionSel < len(m.detail.Versions)-1 {
			m.versionSel++
		}
		return m, nil

	case "k", "up":
		if m.versionSel > 0 {
			m.versionSel--
		}
		return m, nil

	case "enter":
		if m.versionSel < len(m.versionExpanded) {
			m.versionExpanded[m.versionSel] = !m.versionExpanded[m.versionSel]
		}
		return m, nil

	case "u":
		if m.detail == nil {
			return m, nil
		}
		m.view = ViewNew
		m.phase = DraftEditing
		m.draft.Reset()
		m.draft.LoadRecord(m.detail.Record)
		m.statusText = ""
		return m, m.draft.Focus()

	case "d":
		if m.detail == nil {
			return m, nil
		}
		return m, loadHistoryCmd(m.client, m.detail.ID)

	case "p":
		if m.detail == nil {
			return m, nil
		}
		return m, exportPDFCmd(m.client, m.detail.ID)

	case "r":
		if m.detail == nil {
			return m, nil
		}
		m.reminderOpen = true
		return m, m.reminder.Focus()
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterEditing = false
		m.filter.Blur()
		return m, nil

	case "tab":
		return m, m.filter.Next()

	case "shift+tab":
		return m, m.filter.Prev()

	case "enter":
		m.filterEditing = false
		m.filter.Blur()
		m.loadingList = true
		return m, loadListCmd(m.client, m.filter.Filter())
	}
	return m, m.filter.Update(msg)
}

func (m Model) handleReminderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.reminderOpen = false
		m.reminder.Reset()
		return m, nil

	case "tab":
		return m, m.reminder.Next()

	case "shift+tab":
		return m, m.reminder.Prev()

	case "enter", "ctrl+s":
		if m.writeInFlight() || m.detail == nil {
			return m, nil
		}
		req := m.reminder.Request()
		if req.Assignee == "" || req.ActionItem == "" || req.DueDate == "" {
			return m.transientError("担当者、宿題、期限は必須です")
		}
		m.sendingReminder = true
		// Enter sends immediately; ctrl+s only records the reminder.
		if msg.String() == "ctrl+s" {
			return m, scheduleReminderCmd(m.client, m.detail.ID, req)
		}
		return m, notifyCmd(m.client, m.detail.ID, req)
	}
	return m, m.reminder.Update(msg)
}

func (m Model) handleNewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editing := m.phase == DraftEditing || m.phase == DraftSubmitting

	switch msg.String() {
	case "esc":
		// Cancel discards the draft entirely and refreshes the list
		// underneath.
		m.view = ViewHome
		m.phase = DraftEmpty
		m.draft.Reset()
		return m, loadListCmd(m.client, m.filter.Filter())

	case "tab":
		return m, m.draft.Next(editing)

	case "shift+tab":
		return m, m.draft.Prev(editing)

	case "ctrl+g":
		if m.writeInFlight() {
			return m, nil
		}
		if !m.draft.HasGenerateInput() {
			return m.transientError("タイトル、会議日、元テキストは必須です")
		}
		m.phase = DraftGenerating
		m.statusText = "要約を生成中..."
		return m, generateCmd(m.client, m.draft.GenerateRequest())

	case "ctrl+s":
		if m.writeInFlight() || m.phase != DraftEditing {
			return m, nil
		}
		if !m.draft.HasAllSections() {
			return m.transientError("すべてのセクションを入力してください")
		}
		m.phase = DraftSubmitting
		m.statusText = "保存中..."
		return m, saveCmd(m.client, m.draft.editingID, m.draft.CreateRequest())
	}

	// The mode field has no text input; space and arrows flip it.
	if m.draft.focus == fieldMode {
		switch msg.String() {
		case " ", "left", "right":
			m.draft.ToggleMode()
			return m, nil
		}
	}
	return m, m.draft.Update(msg)
}
