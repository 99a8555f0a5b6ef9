package haiku

import "testing"

const oldPond = "An old silent pond\nA frog jumps into the pond—\nSplash! Silence again."

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [3]string
	}{
		{"empty", "", [3]string{"", "", ""}},
		{"one line", "old pond", [3]string{"old pond", "", ""}},
		{"two lines", "a\nb", [3]string{"a", "b", ""}},
		{"crlf", "a\r\nb\r\nc", [3]string{"a", "b", "c"}},
		{"bare cr", "a\rb", [3]string{"a", "b", ""}},
		{"extra lines dropped", "a\nb\nc\nd\ne", [3]string{"a", "b", "c"}},
		{"punctuation passes through", "!!\n🙂\n...", [3]string{"!!", "🙂", "..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.in); got != tt.want {
				t.Fatalf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampLines(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a\nb", "a\nb"},
		{"a\nb\n", "a\nb\n"},
		{"a\nb\nc", "a\nb\nc"},
		{"a\nb\nc\n", "a\nb\nc"},
		{"a\nb\nc\nd\ne\n", "a\nb\nc"},
		{"a\r\nb\r\nc\r\n", "a\nb\nc"},
	}
	for _, tt := range tests {
		if got := ClampLines(tt.in); got != tt.want {
			t.Errorf("ClampLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{
		oldPond,
		"an old silent pond\na frog jumps into the pond\nsplash silence again",
	}
	for _, text := range valid {
		if !IsValid(text) {
			t.Errorf("expected valid haiku, got %s for %q", Check(text), text)
		}
	}

	invalid := []string{
		"An old silent water\nA frog jumps into the pond\nSplash! Silence again.", // 6-7-5
		"An old pond\nA frog jumps into the pond\nSplash! Silence again.",         // 3-7-5
		"An old silent pond\nA frog jumps into pond\nSplash! Silence again.",      // 5-6-5
		"An old silent pond\nA frog jumps into the big pond\nSplash! Silence again.",
		"An old silent pond\nA frog jumps into the pond\nSplash! Silence",
		"An old silent pond\nA frog jumps into the pond\nSplash! Silence again now",
		"An old silent pond\nA frog jumps into the pond",
		"",
	}
	for _, text := range invalid {
		if IsValid(text) {
			t.Errorf("expected invalid haiku for %q", text)
		}
	}
}

func TestCheckFeedback(t *testing.T) {
	f := Check("An old silent pond\nA frog jumps")
	if got := f.String(); got != "5/5 3/7 0/5" {
		t.Fatalf("feedback = %q", got)
	}
	if !f.Lines[0].OK() || f.Lines[1].OK() || f.Lines[2].OK() {
		t.Fatalf("unexpected per-line status: %+v", f.Lines)
	}
	if f.Valid() {
		t.Fatal("partial draft reported valid")
	}
}

func TestIsValidOffByOne(t *testing.T) {
	base := [3]string{"an old silent pond", "a frog jumps into the pond", "splash silence again"}
	shifted := [3][2]string{
		{"old silent pond", "an old silent pond now"},
		{"a frog jumps into pond", "a frog jumps into the big pond"},
		{"splash silence gain", "splash silence again now"},
	}

	join := func(l [3]string) string { return l[0] + "\n" + l[1] + "\n" + l[2] }
	if !IsValid(join(base)) {
		t.Fatalf("base haiku invalid: %s", Check(join(base)))
	}
	for i, pair := range shifted {
		for j, line := range pair {
			lines := base
			lines[i] = line
			f := Check(join(lines))
			want := Pattern[i] - 1 + 2*j
			if got := f.Lines[i].Syllables; got != want {
				t.Fatalf("line %d %q counted %d, want %d", i+1, line, got, want)
			}
			if f.Valid() {
				t.Errorf("line %d at %d syllables still valid", i+1, want)
			}
		}
	}
}
