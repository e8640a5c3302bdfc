package utils

import "testing"

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"Plain lamp":                        "Plain lamp",
		"<b>Bold</b> chair":                 "Bold chair",
		`<script>alert(1)</script>Desk`:     "Desk",
		`<img src=x onerror=alert(1)>Table`: "Table",
		"Tom &amp; Jerry":                   "Tom & Jerry",
		"&lt;b&gt;Escaped&lt;/b&gt;":        "Escaped",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b || !ValidID(a) || !ValidID(b) {
		t.Fatalf("ids %q %q", a, b)
	}
	if ValidID("rm-1") {
		t.Fatal("non uuid accepted")
	}
}
