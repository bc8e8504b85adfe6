package core

import "testing"

func TestScreenClipping(t *testing.T) {
	s := NewScreen(5, 3)
	s.Set(-1, 0, 'x')
	s.Set(5, 0, 'x')
	s.Set(0, 3, 'x')
	if s.String() != "     \n     \n     " {
		t.Errorf("out of range writes leaked: %q", s.String())
	}

	end := s.DrawText(3, 1, "abc", ColorRed)
	if end != 6 {
		t.Errorf("DrawText returned %d, want 6", end)
	}
	if s.Row(1) != "   ab" {
		t.Errorf("Row(1) = %q", s.Row(1))
	}
	if c := s.GetCell(3, 1); c.Rune != 'a' || c.Color != ColorRed {
		t.Errorf("GetCell = %+v", c)
	}
	if c := s.GetCell(9, 9); c.Rune != ' ' {
		t.Errorf("GetCell out of range = %+v", c)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(0, 0, 4, 3, ColorDefault)
	want := "┌──┐\n│  │\n└──┘"
	if s.String() != want {
		t.Errorf("DrawBox:\n%s\nwant:\n%s", s.String(), want)
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(3, 1)
	s.FillRect(0, 0, 3, 1, '#', ColorGray)
	s.Resize(2, 2)
	if s.Width() != 2 || s.Height() != 2 {
		t.Fatalf("size = %dx%d", s.Width(), s.Height())
	}
	if s.String() != "  \n  " {
		t.Errorf("Resize did not clear: %q", s.String())
	}
}
