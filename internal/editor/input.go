package editor

import (
	"strconv"
	"unicode/utf8"
)

// Action represents an editor input action.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionGenerate
	ActionAddEye
	ActionAddTooth
	ActionAddBody
	ActionSelectNext
	ActionSelectPrev
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionNudgeUp
	ActionNudgeDown
	ActionNudgeLeft
	ActionNudgeRight
	ActionGrow
	ActionShrink
	ActionRecolor
	ActionDelete
	ActionClear
	ActionCycleBackground
	ActionRandomBackground // also toggles recording while previewing
	ActionSlower
	ActionFaster
	ActionPatternSmaller
	ActionPatternLarger
	ActionToggleAffordances
	ActionPreview
	ActionEscape
	ActionMousePress
	ActionMouseDrag
	ActionMouseRelease
	ActionResize
)

// InputEvent carries an action into the loop. Mouse events carry the
// 0-based terminal cell in Col and Row; resize events carry the new
// terminal width and height.
type InputEvent struct {
	SessionID string
	Action    Action
	Col, Row  int
}

// Resize builds the event reporting a terminal size change.
func Resize(width, height int) InputEvent {
	return InputEvent{Action: ActionResize, Col: width, Row: height}
}

var keyActions = map[rune]Action{
	'g': ActionGenerate,
	'e': ActionAddEye,
	't': ActionAddTooth,
	'b': ActionAddBody,
	'\t': ActionSelectNext,
	'w': ActionNudgeUp, 'W': ActionNudgeUp,
	's': ActionNudgeDown, 'S': ActionNudgeDown,
	'a': ActionNudgeLeft, 'A': ActionNudgeLeft,
	'd': ActionNudgeRight, 'D': ActionNudgeRight,
	'+': ActionGrow, '=': ActionGrow,
	'-': ActionShrink, '_': ActionShrink,
	'c': ActionRecolor,
	'x': ActionDelete,
	'n': ActionClear,
	'k': ActionCycleBackground,
	'r': ActionRandomBackground,
	'[': ActionSlower,
	']': ActionFaster,
	'{': ActionPatternSmaller,
	'}': ActionPatternLarger,
	'h': ActionToggleAffordances,
	'p': ActionPreview,
	'q': ActionQuit, 'Q': ActionQuit,
	3: ActionQuit, // Ctrl-C
}

// ParseInput converts raw terminal bytes into input events.
// Handles single keys, arrow keys, Shift-Tab, a lone Escape, and xterm
// SGR mouse reports for the left button.
func ParseInput(data []byte) []InputEvent {
	var events []InputEvent
	i := 0
	for i < len(data) {
		if data[i] == 0x1b {
			if i+1 >= len(data) || data[i+1] != '[' {
				events = append(events, InputEvent{Action: ActionEscape})
				i++
				continue
			}
			ev, n := parseCSI(data[i+2:])
			if ev.Action != ActionNone {
				events = append(events, ev)
			}
			i += 2 + n
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		if a, ok := keyActions[r]; ok {
			events = append(events, InputEvent{Action: a})
		}
		i += size
	}
	return events
}

// parseCSI decodes the body of a control sequence that followed "ESC [".
// It returns the bytes consumed, including the final byte.
func parseCSI(data []byte) (InputEvent, int) {
	if len(data) == 0 {
		return InputEvent{Action: ActionEscape}, 0
	}
	switch data[0] {
	case 'A':
		return InputEvent{Action: ActionUp}, 1
	case 'B':
		return InputEvent{Action: ActionDown}, 1
	case 'C':
		return InputEvent{Action: ActionRight}, 1
	case 'D':
		return InputEvent{Action: ActionLeft}, 1
	case 'Z':
		return InputEvent{Action: ActionSelectPrev}, 1
	case '<':
		return parseMouse(data)
	}

	// Skip sequences we do not handle up to their final byte.
	for n, c := range data {
		if c >= 0x40 && c <= 0x7e {
			return InputEvent{}, n + 1
		}
	}
	return InputEvent{}, len(data)
}

// parseMouse decodes "<b;x;yM" or "<b;x;ym".
func parseMouse(data []byte) (InputEvent, int) {
	end := -1
	for n, c := range data {
		if c == 'M' || c == 'm' {
			end = n
			break
		}
	}
	if end < 0 {
		return InputEvent{}, len(data)
	}

	var fields [3]int
	field, start := 0, 1
	for n := 1; n <= end; n++ {
		if n < end && data[n] != ';' {
			continue
		}
		if field >= len(fields) {
			return InputEvent{}, end + 1
		}
		v, err := strconv.Atoi(string(data[start:n]))
		if err != nil {
			return InputEvent{}, end + 1
		}
		fields[field] = v
		field++
		start = n + 1
	}
	if field != len(fields) {
		return InputEvent{}, end + 1
	}

	button, col, row := fields[0], fields[1]-1, fields[2]-1
	// Only the left button; wheel events set bit 6.
	if button&3 != 0 || button&64 != 0 {
		return InputEvent{}, end + 1
	}

	ev := InputEvent{Col: col, Row: row}
	switch {
	case data[end] == 'm':
		ev.Action = ActionMouseRelease
	case button&32 != 0:
		ev.Action = ActionMouseDrag
	default:
		ev.Action = ActionMousePress
	}
	return ev, end + 1
}
