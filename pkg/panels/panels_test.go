package panels

import (
	"reflect"
	"testing"
)

func TestRouteStructuredSummary(t *testing.T) {
	board := NewBoard()
	blob := "Resumo rápido:\n- a\n\nDecisões:\n- b\n\nPróximos passos:\n- c"

	entries := board.Route(TagSummary, blob)
	if len(entries) != 3 {
		t.Fatalf("appended %d entries, want 3", len(entries))
	}

	if got := board.Entries(ListSummary); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("summary = %v", got)
	}
	if got := board.Entries(ListDecisions); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("decisions = %v", got)
	}
	if got := board.Entries(ListActions); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("actions = %v", got)
	}
}

func TestRouteStructuredSummaryMultipleBullets(t *testing.T) {
	board := NewBoard()
	blob := "Resumo rápido:\n- primeiro ponto\n- segundo ponto\n\nPróximos passos:\n- revisar amanhã"

	board.Route(TagSummary, blob)

	if got := board.Entries(ListSummary); !reflect.DeepEqual(got, []string{"primeiro ponto", "segundo ponto"}) {
		t.Fatalf("summary = %v", got)
	}
	if board.Len(ListDecisions) != 0 {
		t.Fatalf("decisions = %v, want empty", board.Entries(ListDecisions))
	}
	if got := board.Entries(ListActions); !reflect.DeepEqual(got, []string{"revisar amanhã"}) {
		t.Fatalf("actions = %v", got)
	}
}

func TestRouteSummaryWithoutHeadersFallsBack(t *testing.T) {
	board := NewBoard()

	board.Route(TagSummary, "[RESUMO] conversa sobre o roadmap")

	if got := board.Entries(ListSummary); !reflect.DeepEqual(got, []string{"conversa sobre o roadmap"}) {
		t.Fatalf("summary = %v", got)
	}
}

func TestRouteSummaryNeverDoubleRoutes(t *testing.T) {
	// A structured summary whose body also contains heuristic keywords must
	// land only where the headers say, not additionally via the keyword path.
	board := NewBoard()
	blob := "Resumo rápido:\n- ficou decidido contratar\n\nDecisões:\n- aprovar orçamento"

	board.Route(TagSummary, blob)

	if got := board.Entries(ListSummary); !reflect.DeepEqual(got, []string{"ficou decidido contratar"}) {
		t.Fatalf("summary = %v", got)
	}
	if got := board.Entries(ListDecisions); !reflect.DeepEqual(got, []string{"aprovar orçamento"}) {
		t.Fatalf("decisions = %v", got)
	}
	if board.Len(ListActions) != 0 {
		t.Fatalf("actions = %v, want empty", board.Entries(ListActions))
	}
}

func TestRouteDiarizeStripsBracketPrefix(t *testing.T) {
	for _, raw := range []string{
		"[DIARIZAÇÃO] Falante 1: oi",
		"[DIARIZACAO] Falante 1: oi",
	} {
		board := NewBoard()
		entries := board.Route(TagDiarize, raw)
		if len(entries) != 1 {
			t.Fatalf("appended %d entries for %q, want 1", len(entries), raw)
		}
		if got := board.Entries(ListDiarization); !reflect.DeepEqual(got, []string{"Falante 1: oi"}) {
			t.Fatalf("diarization = %v for %q", got, raw)
		}
	}
}

func TestRouteAnswerDecisionHeuristic(t *testing.T) {
	board := NewBoard()
	text := "Sobre o ponto anterior: ficou decidido adiar o lançamento."

	board.Route(TagAnswer, text)

	if got := board.Entries(ListDecisions); !reflect.DeepEqual(got, []string{text}) {
		t.Fatalf("decisions = %v", got)
	}
}

func TestRouteAnswerActionHeuristicWinsOverDecision(t *testing.T) {
	board := NewBoard()
	text := "Tarefa: João fica responsável, e a decisão sai depois."

	board.Route(TagAnswer, text)

	if board.Len(ListActions) != 1 {
		t.Fatalf("actions = %v, want one entry", board.Entries(ListActions))
	}
	if board.Len(ListDecisions) != 0 {
		t.Fatalf("decisions = %v, want empty", board.Entries(ListDecisions))
	}
}

func TestRouteAnswerWithoutKeywordsIsDropped(t *testing.T) {
	board := NewBoard()

	entries := board.Route(TagAnswer, "tudo bem por aí?")

	if len(entries) != 0 {
		t.Fatalf("entries = %v, want none", entries)
	}
	for _, list := range []List{ListSummary, ListDecisions, ListActions, ListDiarization} {
		if board.Len(list) != 0 {
			t.Fatalf("list %v gained entries: %v", list, board.Entries(list))
		}
	}
}

func TestRouteAnswerLegacyPrefixes(t *testing.T) {
	board := NewBoard()

	board.Route(TagAnswer, "[RESUMO] tudo certo")
	board.Route(TagAnswer, "[DIARIZAÇÃO] Falante 2: sim")

	if got := board.Entries(ListSummary); !reflect.DeepEqual(got, []string{"tudo certo"}) {
		t.Fatalf("summary = %v", got)
	}
	if got := board.Entries(ListDiarization); !reflect.DeepEqual(got, []string{"Falante 2: sim"}) {
		t.Fatalf("diarization = %v", got)
	}
}

func TestListsAreAppendOnly(t *testing.T) {
	board := NewBoard()
	board.Route(TagDiarize, "Falante 1: oi")
	board.Route(TagDiarize, "Falante 1: oi")
	board.Route(TagDiarize, "Falante 2: tudo bem")

	got := board.Entries(ListDiarization)
	want := []string{"Falante 1: oi", "Falante 1: oi", "Falante 2: tudo bem"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("diarization = %v, want %v (no dedup, insertion order)", got, want)
	}
}

func TestCountLabelPluralization(t *testing.T) {
	board := NewBoard()

	if got := board.CountLabel(ListActions); got != "0 tarefas" {
		t.Fatalf("empty actions label = %q", got)
	}

	board.Route(TagAnswer, "nova tarefa pra segunda")
	if got := board.CountLabel(ListActions); got != "1 tarefa" {
		t.Fatalf("actions label = %q", got)
	}

	board.Route(TagAnswer, "tarefa extra: revisar contrato, prazo sexta")
	if got := board.CountLabel(ListActions); got != "2 tarefas" {
		t.Fatalf("actions label = %q", got)
	}

	board.Route(TagAnswer, "ficou decidido seguir")
	if got := board.CountLabel(ListDecisions); got != "1 item" {
		t.Fatalf("decisions label = %q", got)
	}

	board.Route(TagDiarize, "Falante 1: oi")
	if got := board.CountLabel(ListDiarization); got != "1 bloco" {
		t.Fatalf("diarization label = %q", got)
	}
	board.Route(TagDiarize, "Falante 2: olá")
	if got := board.CountLabel(ListDiarization); got != "2 blocos" {
		t.Fatalf("diarization label = %q", got)
	}
}
