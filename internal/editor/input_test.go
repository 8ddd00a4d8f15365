package editor

import (
	"reflect"
	"testing"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []InputEvent
	}{
		{"keys", "get", []InputEvent{{Action: ActionGenerate}, {Action: ActionAddEye}, {Action: ActionAddTooth}}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []InputEvent{{Action: ActionUp}, {Action: ActionDown}, {Action: ActionRight}, {Action: ActionLeft}}},
		{"tab and shift-tab", "\t\x1b[Z", []InputEvent{{Action: ActionSelectNext}, {Action: ActionSelectPrev}}},
		{"wasd nudges", "wAsD", []InputEvent{{Action: ActionNudgeUp}, {Action: ActionNudgeLeft}, {Action: ActionNudgeDown}, {Action: ActionNudgeRight}}},
		{"sliders", "[]{}", []InputEvent{{Action: ActionSlower}, {Action: ActionFaster}, {Action: ActionPatternSmaller}, {Action: ActionPatternLarger}}},
		{"quit", "q\x03", []InputEvent{{Action: ActionQuit}, {Action: ActionQuit}}},
		{"lone escape", "\x1b", []InputEvent{{Action: ActionEscape}}},
		{"escape then key", "\x1bp", []InputEvent{{Action: ActionEscape}, {Action: ActionPreview}}},
		{"mouse press", "\x1b[<0;11;21M", []InputEvent{{Action: ActionMousePress, Col: 10, Row: 20}}},
		{"mouse drag", "\x1b[<32;12;22M", []InputEvent{{Action: ActionMouseDrag, Col: 11, Row: 21}}},
		{"mouse release", "\x1b[<0;12;22m", []InputEvent{{Action: ActionMouseRelease, Col: 11, Row: 21}}},
		{"right button ignored", "\x1b[<2;5;5Mg", []InputEvent{{Action: ActionGenerate}}},
		{"wheel ignored", "\x1b[<64;5;5M", nil},
		{"unknown sequence skipped", "\x1b[1;5Ck", []InputEvent{{Action: ActionCycleBackground}}},
		{"unmapped keys", "zZ9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInput([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseInput(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
