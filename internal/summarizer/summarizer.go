// Package summarizer turns raw meeting text into the four minutes sections
// (purpose, decisions, action items, digest) using keyword heuristics.
package summarizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxCharacters is the advisory budget for the four sections combined.
// Results exceeding it are truncated proportionally.
const MaxCharacters = 1000

// Input modes accepted by Summarize.
const (
	ModeFree   = "free"
	ModeBullet = "bullet"
)

// Input is the raw material for one summarization run.
type Input struct {
	Title string
	Text  string
	Mode  string // ModeFree or ModeBullet
}

// Result holds the four generated sections and their combined length in runes.
type Result struct {
	Purpose         string
	Decisions       string
	ActionItems     string
	Digest          string
	TotalCharacters int
}

// sectionKeywords maps each section to the header keywords that open it.
// Order matters: the first matching section wins for a given line.
var sectionKeywords = []struct {
	key      string
	keywords []string
}{
	{"purpose", []string{"目的", "ゴール", "狙い", "目標"}},
	{"decisions", []string{"決定", "合意", "決めた", "承認"}},
	{"action_items", []string{"宿題", "アクション", "todo", "タスク", "対応"}},
	{"digest", []string{"概要", "要旨", "サマリ", "まとめ", "ポイント"}},
}

var (
	bulletPattern = regexp.MustCompile(`^[-*・0-9.)]\s*`)
	headerSplit   = regexp.MustCompile(`[:：]\s*`)
)

// parsed collects lines by section while scanning the input top to bottom.
type parsed struct {
	sections  map[string][]string
	remainder []string
}

func parseText(in Input) parsed {
	p := parsed{sections: map[string][]string{}}

	current := ""
	for _, raw := range strings.Split(in.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(strings.ReplaceAll(line, "：", ":"))

		matched := false
		for _, sk := range sectionKeywords {
			for _, kw := range sk.keywords {
				if strings.Contains(lower, strings.ToLower(kw)) {
					current = sk.key
					parts := headerSplit.Split(line, 2)
					if len(parts) == 2 {
						p.sections[sk.key] = append(p.sections[sk.key], strings.TrimSpace(parts[1]))
					} else {
						p.sections[sk.key] = append(p.sections[sk.key], line)
					}
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched {
			continue
		}

		switch {
		case current != "":
			p.sections[current] = append(p.sections[current], line)
		case in.Mode == ModeBullet && bulletPattern.MatchString(line):
			p.sections["digest"] = append(p.sections["digest"], bulletPattern.ReplaceAllString(line, ""))
		default:
			p.remainder = append(p.remainder, line)
		}
	}
	return p
}

func joinLines(lines []string) string {
	var kept []string
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}

// Summarize produces the four sections from raw text. Sections without an
// explicit header fall back to inferred content so no section comes back
// empty.
func Summarize(in Input) Result {
	p := parseText(in)

	purpose := joinLines(p.sections["purpose"])
	if purpose == "" {
		purpose = inferPurpose(in, p)
	}
	decisions := joinLines(p.sections["decisions"])
	if decisions == "" {
		decisions = inferDecisions(p)
	}
	actions := joinLines(p.sections["action_items"])
	if actions == "" {
		actions = inferActions(p)
	}
	digest := joinLines(fallbackDigest(p))
	if digest == "" {
		digest = purpose
	}

	sections := []string{purpose, decisions, actions, digest}
	total := 0
	for _, s := range sections {
		total += utf8.RuneCountInString(s)
	}
	if total > MaxCharacters {
		sections = truncateSections(sections, MaxCharacters)
		total = 0
		for _, s := range sections {
			total += utf8.RuneCountInString(s)
		}
	}

	return Result{
		Purpose:         sections[0],
		Decisions:       sections[1],
		ActionItems:     sections[2],
		Digest:          sections[3],
		TotalCharacters: total,
	}
}

// fallbackDigest prefers explicit digest lines, then the opening of the
// remainder, then decisions or purpose lines.
func fallbackDigest(p parsed) []string {
	if len(p.sections["digest"]) > 0 {
		return p.sections["digest"]
	}
	candidates := head(p.remainder, 3)
	if len(candidates) == 0 {
		if len(p.sections["decisions"]) > 0 {
			candidates = head(p.sections["decisions"], 3)
		} else {
			candidates = head(p.sections["purpose"], 3)
		}
	}
	return candidates
}

func inferPurpose(in Input, p parsed) string {
	if len(p.remainder) > 0 {
		return p.remainder[0]
	}
	if in.Title != "" {
		return in.Title + "に関する会議の目的を確認"
	}
	return "会議の目的を要約"
}

func inferDecisions(p parsed) string {
	if len(p.remainder) > 0 {
		return strings.Join(slice(p.remainder, 1, 3), "\n")
	}
	return "決定事項は会議内の合意内容に基づきます"
}

func inferActions(p parsed) string {
	if dec := p.sections["decisions"]; len(dec) > 0 {
		start := len(dec) - 2
		if start < 0 {
			start = 0
		}
		return strings.Join(dec[start:], "\n")
	}
	return "宿題は会議参加者に共有済みのタスクを参照してください"
}

// truncateSections cuts each section to a length share proportional to its
// size, keeping at least a minimal slice of every non-empty section.
func truncateSections(sections []string, limit int) []string {
	total := 0
	for _, s := range sections {
		total += utf8.RuneCountInString(s)
	}
	if total <= limit {
		return sections
	}

	minShare := limit / len(sections)
	if minShare > 80 {
		minShare = 80
	}

	out := make([]string, len(sections))
	for i, s := range sections {
		if s == "" {
			continue
		}
		n := utf8.RuneCountInString(s)
		share := limit * n / total
		if share < minShare {
			share = minShare
		}
		out[i] = strings.TrimRight(truncateRunes(s, share), " \t\n")
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func head(lines []string, n int) []string {
	if len(lines) < n {
		n = len(lines)
	}
	return lines[:n]
}

func slice(lines []string, from, to int) []string {
	if from > len(lines) {
		from = len(lines)
	}
	if to > len(lines) {
		to = len(lines)
	}
	return lines[from:to]
}
