package board

import (
	"errors"
	"testing"

	"github.com/tablero-app/tablero/internal/models"
)

// seedState builds a three-column board: Todo [A B C], Doing [D], Done []
func seedState(t *testing.T) *State {
	t.Helper()
	s := NewState(1)
	s.Replace(
		[]models.Column{
			{ID: 1, BoardID: 1, Name: "Todo", Position: 0},
			{ID: 2, BoardID: 1, Name: "Doing", Position: 1},
			{ID: 3, BoardID: 1, Name: "Done", Position: 2},
		},
		[]models.Card{
			{ID: 10, ColumnID: 1, Position: 0, Title: "A"},
			{ID: 20, ColumnID: 1, Position: 1, Title: "B"},
			{ID: 30, ColumnID: 1, Position: 2, Title: "C"},
			{ID: 40, ColumnID: 2, Position: 0, Title: "D"},
		},
	)
	return s
}

func cardIDs(cards []models.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func assertIDs(t *testing.T, got []int, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestReplaceSortsCollections(t *testing.T) {
	s := NewState(1)
	s.Replace(
		[]models.Column{
			{ID: 2, Position: 1},
			{ID: 1, Position: 0},
		},
		[]models.Card{
			{ID: 30, ColumnID: 1, Position: 2},
			{ID: 10, ColumnID: 1, Position: 0},
			{ID: 20, ColumnID: 1, Position: 1},
		},
	)

	cols := s.Columns()
	if cols[0].ID != 1 || cols[1].ID != 2 {
		t.Fatalf("columns not sorted by position: %+v", cols)
	}
	assertIDs(t, cardIDs(s.Cards(1)), 10, 20, 30)
}

func TestFindCard(t *testing.T) {
	s := seedState(t)

	colID, idx, ok := s.FindCard(20)
	if !ok || colID != 1 || idx != 1 {
		t.Fatalf("expected card 20 at column 1 index 1, got column %d index %d ok=%v", colID, idx, ok)
	}

	if _, _, ok := s.FindCard(999); ok {
		t.Fatalf("unknown card should not be found")
	}
}

func TestApplyCardUpdatesCrossColumn(t *testing.T) {
	s := seedState(t)

	two := 2
	err := s.ApplyCardUpdates([]models.OrderUpdate{
		{ID: 10, Position: 0},
		{ID: 30, Position: 1},
		{ID: 20, Position: 0, ColumnID: &two},
		{ID: 40, Position: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertIDs(t, cardIDs(s.Cards(1)), 10, 30)
	assertIDs(t, cardIDs(s.Cards(2)), 20, 40)

	if err := s.Validate(); err != nil {
		t.Fatalf("state should stay dense: %v", err)
	}
}

func TestApplyCardUpdatesUnknownCard(t *testing.T) {
	s := seedState(t)

	err := s.ApplyCardUpdates([]models.OrderUpdate{{ID: 999, Position: 0}})
	if !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("expected ErrUnknownCard, got %v", err)
	}
}

func TestApplyColumnUpdates(t *testing.T) {
	s := seedState(t)

	err := s.ApplyColumnUpdates([]models.OrderUpdate{
		{ID: 3, Position: 0},
		{ID: 1, Position: 1},
		{ID: 2, Position: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cols := s.Columns()
	if cols[0].ID != 3 || cols[1].ID != 1 || cols[2].ID != 2 {
		t.Fatalf("columns not reordered: %+v", cols)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("state should stay dense: %v", err)
	}
}

func TestAppendCardAndColumn(t *testing.T) {
	s := seedState(t)

	s.AppendCard(models.Card{ID: 50, ColumnID: 3, Title: "E"})
	assertIDs(t, cardIDs(s.Cards(3)), 50)
	if s.Cards(3)[0].Position != 0 {
		t.Fatalf("appended card should get position 0 in an empty column")
	}

	s.AppendColumn(models.Column{ID: 4, BoardID: 1, Name: "Archive"})
	cols := s.Columns()
	if cols[3].ID != 4 || cols[3].Position != 3 {
		t.Fatalf("appended column should land at position 3, got %+v", cols[3])
	}

	if err := s.Validate(); err != nil {
		t.Fatalf("state should stay dense: %v", err)
	}
}

func TestValidateDetectsDuplicates(t *testing.T) {
	s := NewState(1)
	s.Replace(
		[]models.Column{{ID: 1, Position: 0}},
		[]models.Card{
			{ID: 10, ColumnID: 1, Position: 0},
			{ID: 20, ColumnID: 1, Position: 0},
		},
	)

	if err := s.Validate(); !errors.Is(err, ErrDuplicatePosition) {
		t.Fatalf("expected ErrDuplicatePosition, got %v", err)
	}
}

func TestValidateDetectsGaps(t *testing.T) {
	s := NewState(1)
	s.Replace(
		[]models.Column{{ID: 1, Position: 0}},
		[]models.Card{
			{ID: 10, ColumnID: 1, Position: 0},
			{ID: 20, ColumnID: 1, Position: 2},
		},
	)

	if err := s.Validate(); !errors.Is(err, ErrPositionGap) {
		t.Fatalf("expected ErrPositionGap, got %v", err)
	}
}

func TestEmptyColumnIsValid(t *testing.T) {
	s := seedState(t)
	if err := s.Validate(); err != nil {
		t.Fatalf("board with an empty column should validate: %v", err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := seedState(t)

	cards := s.Cards(1)
	cards[0].Title = "mutated"
	if s.Cards(1)[0].Title != "A" {
		t.Fatalf("Cards should return a copy")
	}

	cols := s.Columns()
	cols[0].Name = "mutated"
	if s.Columns()[0].Name != "Todo" {
		t.Fatalf("Columns should return a copy")
	}
}
