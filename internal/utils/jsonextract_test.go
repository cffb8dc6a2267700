package utils

import "testing"

func TestFirstJSONPlainObject(t *testing.T) {
	got, err := FirstJSON(`{"a":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":1}` {
		t.Errorf("got %s", got)
	}
}

func TestFirstJSONSurroundedByProse(t *testing.T) {
	text := "Sure! Here are your topics:\n```json\n[{\"id\":\"topic-1\",\"title\":\"Hello\"}]\n```\nLet me know if you need more."
	got, err := FirstJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"id":"topic-1","title":"Hello"}]` {
		t.Errorf("got %s", got)
	}
}

func TestFirstJSONBracesInsideStrings(t *testing.T) {
	text := `prefix {"note":"a } inside and a \" quote","n":2} suffix`
	got, err := FirstJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"note":"a } inside and a \" quote","n":2}` {
		t.Errorf("got %s", got)
	}
}

func TestFirstJSONSkipsInvalidCandidate(t *testing.T) {
	// The first balanced pair is not valid JSON; the scanner must keep going.
	text := `{not json} then {"ok":true}`
	got, err := FirstJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %s", got)
	}
}

func TestFirstJSONNoneFound(t *testing.T) {
	if _, err := FirstJSON("nothing structured here"); err != ErrNoJSON {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}
	if _, err := FirstJSON("unterminated {\"a\":"); err != ErrNoJSON {
		t.Errorf("expected ErrNoJSON for unbalanced input, got %v", err)
	}
}

func TestUnmarshalFirstJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	if err := UnmarshalFirstJSON(`Response: {"title":"My Video"} done`, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Title != "My Video" {
		t.Errorf("got %q", v.Title)
	}
}

func TestStripCodeFences(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := StripCodeFences(in); got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
	if got := StripCodeFences("plain text"); got != "plain text" {
		t.Errorf("got %q", got)
	}
}
