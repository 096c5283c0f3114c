package reorder

import (
	"errors"
	"testing"

	"github.com/tablero-app/tablero/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// makeCards builds an ordered card list for a column from card IDs
func makeCards(columnID int, ids ...int) []models.Card {
	cards := make([]models.Card, 0, len(ids))
	for i, id := range ids {
		cards = append(cards, models.Card{ID: id, ColumnID: columnID, Position: i})
	}
	return cards
}

// applyPlan replays a plan onto card lists keyed by column so tests can
// check the resulting order without involving the real store
func applyPlan(t *testing.T, lists map[int][]models.Card, updates []models.OrderUpdate) map[int][]int {
	t.Helper()

	byID := make(map[int]models.Card)
	for _, list := range lists {
		for _, c := range list {
			byID[c.ID] = c
		}
	}

	for _, u := range updates {
		card, ok := byID[u.ID]
		if !ok {
			t.Fatalf("plan references unknown card %d", u.ID)
		}
		card.Position = u.Position
		if u.ColumnID != nil {
			card.ColumnID = *u.ColumnID
		}
		byID[u.ID] = card
	}

	result := make(map[int][]int)
	for _, c := range byID {
		for len(result[c.ColumnID]) <= c.Position {
			result[c.ColumnID] = append(result[c.ColumnID], 0)
		}
		if existing := result[c.ColumnID][c.Position]; existing != 0 {
			t.Fatalf("cards %d and %d both at column %d position %d", existing, c.ID, c.ColumnID, c.Position)
		}
		result[c.ColumnID][c.Position] = c.ID
	}
	return result
}

func assertOrder(t *testing.T, got []int, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected order %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// ============================================================================
// CARD MOVES
// ============================================================================

func TestPlanCardMoveSameColumnDown(t *testing.T) {
	source := makeCards(1, 10, 20, 30)

	updates, err := PlanCardMove(source, nil, CardMove{
		CardID: 10, FromColumnID: 1, FromIndex: 0, ToColumnID: 1, ToIndex: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := applyPlan(t, map[int][]models.Card{1: source}, updates)
	assertOrder(t, got[1], 20, 30, 10)
}

func TestPlanCardMoveSameColumnUp(t *testing.T) {
	source := makeCards(1, 10, 20, 30)

	updates, err := PlanCardMove(source, nil, CardMove{
		CardID: 30, FromColumnID: 1, FromIndex: 2, ToColumnID: 1, ToIndex: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := applyPlan(t, map[int][]models.Card{1: source}, updates)
	assertOrder(t, got[1], 30, 10, 20)
}

// Cross-column: moving from column A index 1 (of 3) to column B index 0
// (of 2) must reindex A's remaining cards to {0,1} and B's three cards
// to {0,1,2} with the moved card first.
func TestPlanCardMoveCrossColumn(t *testing.T) {
	colA := makeCards(1, 10, 20, 30)
	colB := makeCards(2, 40, 50)

	updates, err := PlanCardMove(colA, colB, CardMove{
		CardID: 20, FromColumnID: 1, FromIndex: 1, ToColumnID: 2, ToIndex: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One entry per card in each touched column: 2 + 3
	if len(updates) != 5 {
		t.Fatalf("expected 5 updates, got %d", len(updates))
	}

	got := applyPlan(t, map[int][]models.Card{1: colA, 2: colB}, updates)
	assertOrder(t, got[1], 10, 30)
	assertOrder(t, got[2], 20, 40, 50)

	// Only the moved card carries a column reassignment
	for _, u := range updates {
		if u.ID == 20 {
			if u.ColumnID == nil || *u.ColumnID != 2 {
				t.Fatalf("moved card should be reassigned to column 2, got %v", u.ColumnID)
			}
		} else if u.ColumnID != nil {
			t.Fatalf("card %d should not change columns", u.ID)
		}
	}
}

func TestPlanCardMoveNoOp(t *testing.T) {
	source := makeCards(1, 10, 20, 30)

	updates, err := PlanCardMove(source, nil, CardMove{
		CardID: 20, FromColumnID: 1, FromIndex: 1, ToColumnID: 1, ToIndex: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected empty plan for no-op move, got %d updates", len(updates))
	}
}

func TestPlanCardMoveClampsToAppend(t *testing.T) {
	colA := makeCards(1, 10, 20)
	colB := makeCards(2, 30)

	updates, err := PlanCardMove(colA, colB, CardMove{
		CardID: 10, FromColumnID: 1, FromIndex: 0, ToColumnID: 2, ToIndex: 99,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := applyPlan(t, map[int][]models.Card{1: colA, 2: colB}, updates)
	assertOrder(t, got[1], 20)
	assertOrder(t, got[2], 30, 10)
}

func TestPlanCardMoveEmptiesSourceColumn(t *testing.T) {
	colA := makeCards(1, 10)
	colB := makeCards(2, 20)

	updates, err := PlanCardMove(colA, colB, CardMove{
		CardID: 10, FromColumnID: 1, FromIndex: 0, ToColumnID: 2, ToIndex: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := applyPlan(t, map[int][]models.Card{1: colA, 2: colB}, updates)
	if len(got[1]) != 0 {
		t.Fatalf("source column should be empty, got %v", got[1])
	}
	assertOrder(t, got[2], 20, 10)
}

func TestPlanCardMoveValidatesSource(t *testing.T) {
	source := makeCards(1, 10, 20)

	_, err := PlanCardMove(source, nil, CardMove{
		CardID: 10, FromColumnID: 1, FromIndex: 5, ToColumnID: 1, ToIndex: 0,
	})
	if !errors.Is(err, ErrSourceOutOfRange) {
		t.Fatalf("expected ErrSourceOutOfRange, got %v", err)
	}

	_, err = PlanCardMove(source, nil, CardMove{
		CardID: 99, FromColumnID: 1, FromIndex: 0, ToColumnID: 1, ToIndex: 1,
	})
	if !errors.Is(err, ErrCardNotAtSource) {
		t.Fatalf("expected ErrCardNotAtSource, got %v", err)
	}
}

// Density property: whatever sequence of valid moves is applied, every
// touched column's position set stays {0..count-1}. applyPlan fails the
// test on any duplicate position, so this just needs to run the moves.
func TestPlanCardMoveDensityAcrossSequence(t *testing.T) {
	lists := map[int][]models.Card{
		1: makeCards(1, 10, 20, 30, 40),
		2: makeCards(2, 50, 60),
		3: makeCards(3),
	}

	moves := []CardMove{
		{CardID: 10, FromColumnID: 1, FromIndex: 0, ToColumnID: 2, ToIndex: 1},
		{CardID: 60, FromColumnID: 2, FromIndex: 2, ToColumnID: 3, ToIndex: 0},
		{CardID: 40, FromColumnID: 1, FromIndex: 2, ToColumnID: 1, ToIndex: 0},
		{CardID: 10, FromColumnID: 2, FromIndex: 1, ToColumnID: 2, ToIndex: 0},
	}

	for i, mv := range moves {
		updates, err := PlanCardMove(lists[mv.FromColumnID], lists[mv.ToColumnID], mv)
		if err != nil {
			t.Fatalf("move %d failed: %v", i, err)
		}

		result := applyPlan(t, lists, updates)

		// Rebuild the lists from the applied result for the next move
		rebuilt := make(map[int][]models.Card)
		for colID := range lists {
			ids := result[colID]
			rebuilt[colID] = makeCards(colID, ids...)
		}
		lists = rebuilt
	}
}

// ============================================================================
// COLUMN MOVES
// ============================================================================

func TestPlanColumnMove(t *testing.T) {
	columns := []models.Column{
		{ID: 1, Position: 0},
		{ID: 2, Position: 1},
		{ID: 3, Position: 2},
	}

	updates, err := PlanColumnMove(columns, ColumnMove{FromIndex: 2, ToIndex: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[int]int{3: 0, 1: 1, 2: 2}
	if len(updates) != len(want) {
		t.Fatalf("expected %d updates, got %d", len(want), len(updates))
	}
	for _, u := range updates {
		if u.ColumnID != nil {
			t.Fatalf("column updates must not carry a column reassignment")
		}
		if want[u.ID] != u.Position {
			t.Fatalf("column %d: expected position %d, got %d", u.ID, want[u.ID], u.Position)
		}
	}
}

func TestPlanColumnMoveNoOp(t *testing.T) {
	columns := []models.Column{{ID: 1, Position: 0}, {ID: 2, Position: 1}}

	updates, err := PlanColumnMove(columns, ColumnMove{FromIndex: 1, ToIndex: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected empty plan, got %d updates", len(updates))
	}
}

func TestPlanColumnMoveClamps(t *testing.T) {
	columns := []models.Column{{ID: 1, Position: 0}, {ID: 2, Position: 1}}

	updates, err := PlanColumnMove(columns, ColumnMove{FromIndex: 0, ToIndex: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[int]int{2: 0, 1: 1}
	for _, u := range updates {
		if want[u.ID] != u.Position {
			t.Fatalf("column %d: expected position %d, got %d", u.ID, want[u.ID], u.Position)
		}
	}
}

func TestPlanColumnMoveOutOfRange(t *testing.T) {
	columns := []models.Column{{ID: 1, Position: 0}}

	_, err := PlanColumnMove(columns, ColumnMove{FromIndex: 3, ToIndex: 0})
	if !errors.Is(err, ErrSourceOutOfRange) {
		t.Fatalf("expected ErrSourceOutOfRange, got %v", err)
	}
}
