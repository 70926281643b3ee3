package app

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	tea "github.com/charmbracelet/bubbletea"

	"gijiroku/internal/api"
)

// splitParticipants turns comma-separated input into trimmed names.
func splitParticipants(s string) []string {
	names := []string{}
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// filterForm holds the list filter inputs on the home view.
type filterForm struct {
	inputs []textinput.Model // title, participant, start date, end date
	focus  int
}

const (
	filterTitle = iota
	filterParticipant
	filterStart
	filterEnd
	filterFieldCount
)

func newFilterForm() filterForm {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		in.Prompt = ""
		return in
	}
	return filterForm{inputs: []textinput.Model{
		mk("タイトル", 20),
		mk("参加者", 14),
		mk("YYYY-MM-DD", 10),
		mk("YYYY-MM-DD", 10),
	}}
}

func (f *filterForm) Focus() tea.Cmd {
	f.focus = filterTitle
	return f.inputs[f.focus].Focus()
}

func (f *filterForm) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *filterForm) Next() tea.Cmd { return f.moveFocus(1) }
func (f *filterForm) Prev() tea.Cmd { return f.moveFocus(-1) }

func (f *filterForm) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + filterFieldCount) % filterFieldCount
	return f.inputs[f.focus].Focus()
}

func (f *filterForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// Filter exposes the current inputs as API filter values.
func (f filterForm) Filter() api.Filter {
	return api.Filter{
		Title:       strings.TrimSpace(f.inputs[filterTitle].Value()),
		Participant: strings.TrimSpace(f.inputs[filterParticipant].Value()),
		StartDate:   strings.TrimSpace(f.inputs[filterStart].Value()),
		EndDate:     strings.TrimSpace(f.inputs[filterEnd].Value()),
	}
}

// reminderForm holds the follow-up reminder inputs on the detail pane.
type reminderForm struct {
	inputs []textinput.Model // assignee, action item, due date
	focus  int
}

const (
	reminderAssignee = iota
	reminderAction
	reminderDue
	reminderFieldCount
)

func newReminderForm() reminderForm {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		in.Prompt = ""
		return in
	}
	return reminderForm{inputs: []textinput.Model{
		mk("担当者", 14),
		mk("宿題の内容", 30),
		mk("YYYY-MM-DD", 10),
	}}
}

func (f *reminderForm) Focus() tea.Cmd {
	f.focus = reminderAssignee
	return f.inputs[f.focus].Focus()
}

func (f *reminderForm) Blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *reminderForm) Next() tea.Cmd { return f.moveFocus(1) }
func (f *reminderForm) Prev() tea.Cmd { return f.moveFocus(-1) }

func (f *reminderForm) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + reminderFieldCount) % reminderFieldCount
	return f.inputs[f.focus].Focus()
}

func (f *reminderForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *reminderForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = reminderAssignee
}

// Request exposes the current inputs as a reminder submission.
func (f reminderForm) Request() api.ReminderRequest {
	return api.ReminderRequest{
		Assignee:   strings.TrimSpace(f.inputs[reminderAssignee].Value()),
		ActionItem: strings.TrimSpace(f.inputs[reminderAction].Value()),
		DueDate:    strings.TrimSpace(f.inputs[reminderDue].Value()),
	}
}

// Draft field identifiers, in tab order.
const (
	fieldTitle = iota
	fieldDate
	fieldParticipants
	fieldMode
	fieldRaw
	fieldPurpose
	fieldDecisions
	fieldActions
	fieldDigest
	fieldEditor
	draftFieldCount
)

// draftForm holds everything on the creation view: meeting metadata, raw
// text, and the four editable summary sections once a draft exists.
type draftForm struct {
	title        textinput.Model
	date         textinput.Model
	participants textinput.Model
	editor       textinput.Model
	raw          textarea.Model
	sections     [4]textarea.Model // purpose, decisions, action items, digest
	mode         string
	focus        int

	// editingID is set when the form was opened from an existing record.
	editingID string
	rawInput  string // original raw text carried through updates
}

func newDraftForm() draftForm {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		in.Prompt = ""
		return in
	}
	mkArea := func(placeholder string, height int) textarea.Model {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.SetWidth(60)
		ta.SetHeight(height)
		return ta
	}

	f := draftForm{
		title:        mk("会議タイトル", 40),
		date:         mk("YYYY-MM-DD", 10),
		participants: mk("参加者 (カンマ区切り)", 40),
		editor:       mk("編集者", 14),
		raw:          mkArea("会議の元テキストを貼り付け", 8),
		mode:         api.ModeFree,
	}
	for i, placeholder := range [4]string{"会議の目的", "決定事項", "宿題", "議事要旨"} {
		f.sections[i] = mkArea(placeholder, 3)
	}
	return f
}

// fieldOrder returns the tab order for the current phase. Sections and
// the editor field only join once a draft exists.
func (f draftForm) fieldOrder(editing bool) []int {
	order := []int{fieldTitle, fieldDate, fieldParticipants, fieldMode, fieldRaw}
	if editing {
		order = append(order, fieldPurpose, fieldDecisions, fieldActions, fieldDigest)
		if f.editingID != "" {
			order = append(order, fieldEditor)
		}
	}
	return order
}

func (f *draftForm) Focus() tea.Cmd {
	f.Blur()
	f.focus = fieldTitle
	return f.title.Focus()
}

func (f *draftForm) Blur() {
	f.title.Blur()
	f.date.Blur()
	f.participants.Blur()
	f.editor.Blur()
	f.raw.Blur()
	for i := range f.sections {
		f.sections[i].Blur()
	}
}

func (f *draftForm) Next(editing bool) tea.Cmd { return f.moveFocus(1, editing) }
func (f *draftForm) Prev(editing bool) tea.Cmd { return f.moveFocus(-1, editing) }

func (f *draftForm) moveFocus(delta int, editing bool) tea.Cmd {
	order := f.fieldOrder(editing)
	pos := 0
	for i, field := range order {
		if field == f.focus {
			pos = i
			break
		}
	}
	f.Blur()
	f.focus = order[(pos+delta+len(order))%len(order)]
	return f.focusCurrent()
}

func (f *draftForm) focusCurrent() tea.Cmd {
	switch f.focus {
	case fieldTitle:
		return f.title.Focus()
	case fieldDate:
		return f.date.Focus()
	case fieldParticipants:
		return f.participants.Focus()
	case fieldEditor:
		return f.editor.Focus()
	case fieldRaw:
		return f.raw.Focus()
	case fieldPurpose, fieldDecisions, fieldActions, fieldDigest:
		return f.sections[f.focus-fieldPurpose].Focus()
	}
	return nil
}

// ToggleMode flips between free text and bullet input.
func (f *draftForm) ToggleMode() {
	if f.mode == api.ModeFree {
		f.mode = api.ModeBullet
	} else {
		f.mode = api.ModeFree
	}
}

func (f *draftForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldParticipants:
		f.participants, cmd = f.participants.Update(msg)
	case fieldEditor:
		f.editor, cmd = f.editor.Update(msg)
	case fieldRaw:
		f.raw, cmd = f.raw.Update(msg)
	case fieldPurpose, fieldDecisions, fieldActions, fieldDigest:
		i := f.focus - fieldPurpose
		f.sections[i], cmd = f.sections[i].Update(msg)
	}
	return cmd
}

// HasGenerateInput reports whether title, date, and raw text are all
// present. Participants may be empty.
func (f draftForm) HasGenerateInput() bool {
	return strings.TrimSpace(f.title.Value()) != "" &&
		strings.TrimSpace(f.date.Value()) != "" &&
		strings.TrimSpace(f.raw.Value()) != ""
}

// HasAllSections reports whether every summary section is non-empty.
func (f draftForm) HasAllSections() bool {
	for _, s := range f.sections {
		if strings.TrimSpace(s.Value()) == "" {
			return false
		}
	}
	return true
}

// TotalCharacters counts runes across the four sections.
func (f draftForm) TotalCharacters() int {
	total := 0
	for _, s := range f.sections {
		total += utf8.RuneCountInString(s.Value())
	}
	return total
}

// GenerateRequest builds the summarize call from the form.
func (f draftForm) GenerateRequest() api.GenerateRequest {
	return api.GenerateRequest{
		Title:        strings.TrimSpace(f.title.Value()),
		MeetingDate:  strings.TrimSpace(f.date.Value()),
		Participants: splitParticipants(f.participants.Value()),
		Text:         f.raw.Value(),
		InputMode:    f.mode,
	}
}

// CreateRequest builds the save call from the form.
func (f draftForm) CreateRequest() api.CreateRequest {
	return api.CreateRequest{
		Title:        strings.TrimSpace(f.title.Value()),
		MeetingDate:  strings.TrimSpace(f.date.Value()),
		Participants: splitParticipants(f.participants.Value()),
		RawInput:     f.rawText(),
		Purpose:      f.sections[0].Value(),
		Decisions:    f.sections[1].Value(),
		ActionItems:  f.sections[2].Value(),
		Digest:       f.sections[3].Value(),
		Editor:       strings.TrimSpace(f.editor.Value()),
	}
}

func (f draftForm) rawText() string {
	if v := f.raw.Value(); strings.TrimSpace(v) != "" {
		return v
	}
	return f.rawInput
}

// ApplySummary fills the four sections from a generated summary.
func (f *draftForm) ApplySummary(s api.Summary) {
	f.sections[0].SetValue(s.Purpose)
	f.sections[1].SetValue(s.Decisions)
	f.sections[2].SetValue(s.ActionItems)
	f.sections[3].SetValue(s.Digest)
}

// ClearSections empties the four sections, returning the draft to its
// pre-generation state.
func (f *draftForm) ClearSections() {
	for i := range f.sections {
		f.sections[i].SetValue("")
	}
}

// LoadRecord prefills the form from an existing record for editing.
func (f *draftForm) LoadRecord(rec api.Record) {
	f.editingID = rec.ID
	f.rawInput = rec.RawInput
	f.title.SetValue(rec.Title)
	f.date.SetValue(rec.MeetingDate)
	f.participants.SetValue(strings.Join(rec.Participants, ", "))
	f.raw.SetValue(rec.RawInput)
	f.sections[0].SetValue(rec.Purpose)
	f.sections[1].SetValue(rec.Decisions)
	f.sections[2].SetValue(rec.ActionItems)
	f.sections[3].SetValue(rec.Digest)
}

// Reset returns the whole form to its initial empty state.
func (f *draftForm) Reset() {
	*f = newDraftForm()
}
