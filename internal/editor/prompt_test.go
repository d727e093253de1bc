package editor

import (
	"strings"
	"testing"
)

func TestBuildInstructionRawWins(t *testing.T) {
	got := BuildInstruction("  make the button red  ", &EditTriple{TypeLabel: "色", Before: "青", After: "赤"}, "ja")
	if got != "make the button red" {
		t.Fatalf("raw instruction must win: %q", got)
	}
}

func TestBuildInstructionTriple(t *testing.T) {
	got := BuildInstruction("", &EditTriple{TypeLabel: "キャッチコピー", Before: "今だけ半額", After: "本日限り半額"}, "ja")
	want := "【キャッチコピーの変更】\n変更前: 今だけ半額\n変更後: 本日限り半額"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuildInstructionPlaceholderLocalized(t *testing.T) {
	ja := BuildInstruction("", &EditTriple{TypeLabel: "背景", After: "夜景に変更"}, "ja")
	if !strings.Contains(ja, "変更前: （現状のまま）") {
		t.Fatalf("japanese placeholder missing: %q", ja)
	}
	en := BuildInstruction("", &EditTriple{TypeLabel: "背景", After: "night view"}, "en-US")
	if !strings.Contains(en, "変更前: (current state)") {
		t.Fatalf("english placeholder missing: %q", en)
	}
}

func TestBuildInstructionEmptyTriple(t *testing.T) {
	if got := BuildInstruction("", &EditTriple{TypeLabel: "色"}, "ja"); got != "" {
		t.Fatalf("blank before and after must yield no instruction, got %q", got)
	}
	if got := BuildInstruction("", nil, "ja"); got != "" {
		t.Fatalf("nil triple without raw text must yield no instruction, got %q", got)
	}
}
