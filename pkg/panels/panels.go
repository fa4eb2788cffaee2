package panels

import (
	"fmt"
	"strings"
)

// List identifies one of the four side panels.
type List int

const (
	ListSummary List = iota
	ListDecisions
	ListActions
	ListDiarization
)

// Tags accepted by Route. The empty tag is treated like TagAnswer.
const (
	TagSummary = "summary"
	TagDiarize = "diarize"
	TagAnswer  = "answer"
)

// Section headers emitted by the backend's structured summaries.
const (
	headerSummary   = "Resumo rápido:"
	headerDecisions = "Decisões:"
	headerNextSteps = "Próximos passos:"
)

// Legacy bracket prefixes from older backend variants.
var (
	summaryPrefixes = []string{"[RESUMO]"}
	diarizePrefixes = []string{"[DIARIZAÇÃO]", "[DIARIZACAO]"}
)

var actionKeywords = []string{
	"responsável",
	"responsavel",
	"prazo",
	"tarefa",
	"próximo passo",
	"proximo passo",
}

var decisionKeywords = []string{
	"decidimos",
	"ficou decidido",
	"decisão",
	"decisao",
}

// Entry is one fragment appended to a panel list.
type Entry struct {
	List List
	Text string
}

// Board accumulates extracted meeting fragments. Lists are append-only for
// the lifetime of the board; entries are never removed or deduplicated.
type Board struct {
	lists [4][]string
}

func NewBoard() *Board {
	return &Board{}
}

// Route classifies a text blob under a category tag and appends the
// extracted fragments to their panels. It returns the entries appended, in
// order, so callers can mirror them into a display.
//
// Summary blobs are routed by structured section headers when present; the
// keyword heuristics only apply to untagged answer text, never on top of a
// structured match.
func (b *Board) Route(tag string, text string) []Entry {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch tag {
	case TagSummary:
		if entries := b.routeStructuredSummary(text); len(entries) > 0 {
			return entries
		}
		return []Entry{b.append(ListSummary, stripPrefixes(text, summaryPrefixes))}
	case TagDiarize:
		return []Entry{b.append(ListDiarization, stripPrefixes(text, diarizePrefixes))}
	default:
		return b.routeAnswer(text)
	}
}

// Entries returns the accumulated fragments of one list in append order.
func (b *Board) Entries(list List) []string {
	items := b.lists[list]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// Len returns the number of fragments accumulated in one list.
func (b *Board) Len(list List) int {
	return len(b.lists[list])
}

// CountLabel renders the human-readable counter shown next to a panel,
// pluralized per list type.
func (b *Board) CountLabel(list List) string {
	n := len(b.lists[list])
	switch list {
	case ListActions:
		if n == 1 {
			return "1 tarefa"
		}
		return fmt.Sprintf("%d tarefas", n)
	case ListDecisions:
		if n == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%d itens", n)
	default:
		if n == 1 {
			return "1 bloco"
		}
		return fmt.Sprintf("%d blocos", n)
	}
}

func (b *Board) append(list List, text string) Entry {
	b.lists[list] = append(b.lists[list], text)
	return Entry{List: list, Text: text}
}

// routeStructuredSummary splits a "Resumo rápido / Decisões / Próximos
// passos" blob into per-panel bullet lines. It returns nil when no section
// header is present.
func (b *Board) routeStructuredSummary(text string) []Entry {
	idxSummary := strings.Index(text, headerSummary)
	idxDecisions := strings.Index(text, headerDecisions)
	idxNext := strings.Index(text, headerNextSteps)
	if idxSummary == -1 && idxDecisions == -1 && idxNext == -1 {
		return nil
	}

	section := func(start int, header string, nextIdx int) string {
		if start == -1 {
			return ""
		}
		from := start + len(header)
		if nextIdx != -1 && nextIdx > from {
			return text[from:nextIdx]
		}
		return text[from:]
	}

	summary := section(idxSummary, headerSummary, firstAfter(idxSummary, idxDecisions, idxNext))
	decisions := section(idxDecisions, headerDecisions, firstAfter(idxDecisions, idxNext))
	nextSteps := section(idxNext, headerNextSteps, -1)

	var entries []Entry
	for _, line := range bulletLines(summary) {
		entries = append(entries, b.append(ListSummary, line))
	}
	for _, line := range bulletLines(decisions) {
		entries = append(entries, b.append(ListDecisions, line))
	}
	for _, line := range bulletLines(nextSteps) {
		entries = append(entries, b.append(ListActions, line))
	}

	return entries
}

// routeAnswer applies the legacy prefixes and keyword heuristics to plain
// assistant answers. Text matching nothing is dropped from the panels.
func (b *Board) routeAnswer(text string) []Entry {
	if hasAnyPrefix(text, summaryPrefixes) {
		return []Entry{b.append(ListSummary, stripPrefixes(text, summaryPrefixes))}
	}
	if hasAnyPrefix(text, diarizePrefixes) {
		return []Entry{b.append(ListDiarization, stripPrefixes(text, diarizePrefixes))}
	}

	lowered := strings.ToLower(text)
	for _, keyword := range actionKeywords {
		if strings.Contains(lowered, keyword) {
			return []Entry{b.append(ListActions, text)}
		}
	}
	for _, keyword := range decisionKeywords {
		if strings.Contains(lowered, keyword) {
			return []Entry{b.append(ListDecisions, text)}
		}
	}

	return nil
}

// bulletLines splits a section body into trimmed lines with leading bullet
// markers stripped and blank lines dropped.
func bulletLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-"))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func stripPrefixes(text string, prefixes []string) string {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix))
		}
	}
	return text
}

// firstAfter returns the smallest candidate index greater than start, or -1.
func firstAfter(start int, candidates ...int) int {
	best := -1
	for _, candidate := range candidates {
		if candidate == -1 || candidate <= start {
			continue
		}
		if best == -1 || candidate < best {
			best = candidate
		}
	}
	return best
}

// Name returns the panel's display name.
func (l List) Name() string {
	switch l {
	case ListSummary:
		return "Resumo"
	case ListDecisions:
		return "Decisões"
	case ListActions:
		return "Ações"
	case ListDiarization:
		return "Diarização"
	default:
		return "?"
	}
}
