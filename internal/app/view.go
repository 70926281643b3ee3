package app

import (
	"fmt"
	"strings"

	"gijiroku/internal/api"
	"gijiroku/internal/ui"
)

var sectionLabels = [4]string{"会議の目的", "決定事項", "宿題", "議事要旨"}

// View renders the full TUI.
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.divider())

	if m.view == ViewNew {
		sections = append(sections, m.renderNewView())
	} else {
		sections = append(sections, m.renderHomeView())
	}

	sections = append(sections, m.divider())
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	if m.statusText != "" {
		sections = append(sections, ui.StatusStyle.Render(m.statusText))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) divider() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	return ui.DividerStyle.Render(strings.Repeat("─", width))
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("GIJIROKU")
	if m.view == ViewNew {
		if m.draft.editingID != "" {
			return title + ui.DimStyle.Render(" — 議事録の編集")
		}
		return title + ui.DimStyle.Render(" — 新規議事録")
	}
	return title + ui.DimStyle.Render(" — 議事録一覧")
}

func (m Model) renderHomeView() string {
	var lines []string

	lines = append(lines, m.renderFilterBar())
	lines = append(lines, "")
	lines = append(lines, m.renderList()...)

	if m.detail != nil {
		lines = append(lines, "")
		lines = append(lines, m.divider())
		lines = append(lines, m.renderDetail()...)
	}
	if m.reminderOpen {
		lines = append(lines, "")
		lines = append(lines, m.renderReminderForm()...)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFilterBar() string {
	label := ui.LabelStyle
	if m.filterEditing {
		label = ui.LabelActiveStyle
	}
	return label.Render("絞り込み ") +
		ui.DimStyle.Render("タイトル:") + m.filter.inputs[filterTitle].View() + " " +
		ui.DimStyle.Render("参加者:") + m.filter.inputs[filterParticipant].View() + " " +
		ui.DimStyle.Render("期間:") + m.filter.inputs[filterStart].View() +
		ui.DimStyle.Render("〜") + m.filter.inputs[filterEnd].View()
}

func (m Model) renderList() []string {
	var lines []string
	lines = append(lines, ui.HeaderStyle.Render(fmt.Sprintf("%-12s %-30s %s", "会議日", "タイトル", "参加者")))

	if m.loadingList {
		lines = append(lines, ui.DimStyle.Render("  読み込み中..."))
		return lines
	}
	if len(m.records) == 0 {
		lines = append(lines, ui.DimStyle.Render("  該当する議事録はありません"))
		return lines
	}

	for i, rec := range m.records {
		row := fmt.Sprintf("%-12s %-30s %s",
			rec.MeetingDate, rec.Title, strings.Join(rec.Participants, ", "))
		if i == m.selected && !m.detailFocus {
			lines = append(lines, ui.SelectedStyle.Render("> "+row))
		} else {
			lines = append(lines, "  "+row)
		}
	}
	return lines
}

func (m Model) renderDetail() []string {
	d := m.detail
	var lines []string

	lines = append(lines, ui.LabelActiveStyle.Render(d.Title)+
		ui.DimStyle.Render("  "+d.MeetingDate+"  "+strings.Join(d.Participants, ", ")))

	sections := [4]string{d.Purpose, d.Decisions, d.ActionItems, d.Digest}
	for i, label := range sectionLabels {
		lines = append(lines, ui.HeaderStyle.Render(label))
		body := sections[i]
		if strings.TrimSpace(body) == "" {
			body = "(未入力)"
		}
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, "  "+l)
		}
	}

	lines = append(lines, ui.HeaderStyle.Render(fmt.Sprintf("更新履歴 (%d)", len(d.Versions))))
	for i, v := range d.Versions {
		lines = append(lines, m.renderVersionLine(i, v))
		if i < len(m.versionExpanded) && m.versionExpanded[i] {
			body := [4]string{v.Purpose, v.Decisions, v.ActionItems, v.Digest}
			for j, label := range sectionLabels {
				text := body[j]
				if strings.TrimSpace(text) == "" {
					text = "(未入力)"
				}
				for k, l := range strings.Split(text, "\n") {
					if k == 0 {
						lines = append(lines, ui.DimStyle.Render("      "+label+": "+l))
					} else {
						lines = append(lines, ui.DimStyle.Render("        "+l))
					}
				}
			}
		}
	}

	if len(d.Reminders) > 0 {
		lines = append(lines, ui.HeaderStyle.Render("リマインド"))
		for _, r := range d.Reminders {
			lines = append(lines, fmt.Sprintf("  %s  %s  期限: %s  [%s]",
				r.Assignee, r.ActionItem, r.DueDate, r.Status))
		}
	}

	if m.historyOpen {
		lines = append(lines, m.renderHistory()...)
	}
	return lines
}

// renderHistory lists each version oldest first with the unified diff of
// every section that changed.
func (m Model) renderHistory() []string {
	lines := []string{ui.HeaderStyle.Render("変更差分")}
	for _, e := range m.history {
		editor := "-"
		if e.Version.Editor != nil && *e.Version.Editor != "" {
			editor = *e.Version.Editor
		}
		lines = append(lines, fmt.Sprintf("  %s  編集者: %s",
			e.Version.CreatedAt.Format("2006-01-02 15:04"), editor))
		for _, d := range e.Diffs {
			if d.Previous == d.Current {
				continue
			}
			lines = append(lines, "    "+ui.LabelStyle.Render(sectionLabelFor(d.Field)))
			for _, l := range strings.Split(strings.TrimRight(d.Diff, "\n"), "\n") {
				lines = append(lines, ui.DimStyle.Render("      "+l))
			}
		}
	}
	return lines
}

func sectionLabelFor(field string) string {
	switch field {
	case "purpose":
		return sectionLabels[0]
	case "decisions":
		return sectionLabels[1]
	case "action_items":
		return sectionLabels[2]
	case "digest":
		return sectionLabels[3]
	}
	return field
}

func (m Model) renderVersionLine(i int, v api.Version) string {
	marker := "▸"
	if i < len(m.versionExpanded) && m.versionExpanded[i] {
		marker = "▾"
	}
	editor := "-"
	if v.Editor != nil && *v.Editor != "" {
		editor = *v.Editor
	}
	line := fmt.Sprintf("%s 更新日時: %s  編集者: %s",
		marker, v.CreatedAt.Format("2006-01-02 15:04"), editor)
	if i == m.versionSel && m.detailFocus {
		return ui.SelectedStyle.Render("  > " + line)
	}
	return "    " + line
}

func (m Model) renderReminderForm() []string {
	return []string{
		ui.LabelActiveStyle.Render("リマインド送信"),
		"  " + ui.DimStyle.Render("担当者: ") + m.reminder.inputs[reminderAssignee].View(),
		"  " + ui.DimStyle.Render("宿題: ") + m.reminder.inputs[reminderAction].View(),
		"  " + ui.DimStyle.Render("期限: ") + m.reminder.inputs[reminderDue].View(),
	}
}

func (m Model) renderNewView() string {
	var lines []string

	lines = append(lines, "  "+ui.DimStyle.Render("タイトル: ")+m.draft.title.View())
	lines = append(lines, "  "+ui.DimStyle.Render("会議日: ")+m.draft.date.View())
	lines = append(lines, "  "+ui.DimStyle.Render("参加者: ")+m.draft.participants.View())
	lines = append(lines, "  "+ui.DimStyle.Render("入力形式: ")+m.renderModeField())
	lines = append(lines, "  "+ui.DimStyle.Render("元テキスト:"))
	lines = append(lines, indent(m.draft.raw.View(), "  "))

	switch m.phase {
	case DraftGenerating:
		lines = append(lines, "")
		lines = append(lines, ui.StatusStyle.Render("  要約を生成中..."))

	case DraftEditing, DraftSubmitting:
		lines = append(lines, "")
		for i, label := range sectionLabels {
			style := ui.LabelStyle
			if m.draft.focus == fieldPurpose+i {
				style = ui.LabelActiveStyle
			}
			lines = append(lines, "  "+style.Render(label))
			lines = append(lines, indent(m.draft.sections[i].View(), "  "))
		}
		lines = append(lines, "  "+m.renderCharCounter())
		if m.draft.editingID != "" {
			lines = append(lines, "  "+ui.DimStyle.Render("編集者: ")+m.draft.editor.View())
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderModeField() string {
	free, bullet := "( ) 自由記述", "( ) 箇条書き"
	if m.draft.mode == api.ModeBullet {
		bullet = "(•) 箇条書き"
	} else {
		free = "(•) 自由記述"
	}
	field := free + "  " + bullet
	if m.draft.focus == fieldMode {
		return ui.SelectedStyle.Render(field)
	}
	return field
}

func (m Model) renderCharCounter() string {
	total := m.draft.TotalCharacters()
	text := fmt.Sprintf("総文字数: %d / %d", total, api.MaxTotalCharacters)
	if total > api.MaxTotalCharacters {
		return ui.CounterOverStyle.Render(text)
	}
	return ui.CounterOKStyle.Render(text)
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("エラー: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+desc)
	}

	var parts []string
	switch {
	case m.view == ViewNew:
		parts = append(parts, key("Tab", "次の項目"))
		parts = append(parts, key("Ctrl+G", "要約生成"))
		if m.phase == DraftEditing {
			parts = append(parts, key("Ctrl+S", "保存"))
		}
		parts = append(parts, key("Esc", "戻る"))

	case m.reminderOpen:
		parts = append(parts, key("Tab", "次の項目"))
		parts = append(parts, key("Enter", "送信"))
		parts = append(parts, key("Ctrl+S", "登録のみ"))
		parts = append(parts, key("Esc", "取消"))

	case m.filterEditing:
		parts = append(parts, key("Tab", "次の項目"))
		parts = append(parts, key("Enter", "適用"))
		parts = append(parts, key("Esc", "戻る"))

	case m.detailFocus:
		parts = append(parts, key("j/k", "履歴移動"))
		parts = append(parts, key("Enter", "展開"))
		parts = append(parts, key("d", "差分"))
		parts = append(parts, key("u", "編集"))
		parts = append(parts, key("p", "PDF"))
		parts = append(parts, key("r", "リマインド"))
		parts = append(parts, key("Esc", "戻る"))

	default:
		parts = append(parts, key("/", "絞り込み"))
		parts = append(parts, key("j/k", "移動"))
		parts = append(parts, key("Enter", "詳細"))
		parts = append(parts, key("n", "新規"))
		parts = append(parts, key("e", "CSV"))
		parts = append(parts, key("q", "終了"))
	}

	return strings.Join(parts, "  ")
}

// Helpers

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
