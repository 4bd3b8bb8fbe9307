package iso

import (
	"encoding/json"
	"fmt"
)

// scriptStep is one action in an input script.
type scriptStep struct {
	Action string   `json:"action"`
	Keys   []string `json:"keys,omitempty"`
	Wheel  float64  `json:"wheel,omitempty"`
	DX     float64  `json:"dx,omitempty"`
	DY     float64  `json:"dy,omitempty"`
	Frames int      `json:"frames,omitempty"`
}

type inputScriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// InputScript replays camera input tick by tick in place of the keyboard
// and mouse, for demos, benchmarks, and tests that need repeatable camera
// motion. Actions:
//
//	{"action": "pan", "keys": ["up", "left"], "frames": 30}
//	{"action": "zoom", "wheel": 1, "frames": 5}
//	{"action": "drag", "dx": 200, "dy": 0, "frames": 10}
//	{"action": "wait", "frames": 60}
//
// frames defaults to 1. A drag spreads its screen delta evenly over its
// frames.
type InputScript struct {
	steps  []scriptStep
	cursor int
	frame  int
}

// LoadInputScript parses a JSON input script.
func LoadInputScript(jsonData []byte) (*InputScript, error) {
	var f inputScriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("iso: parse input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("iso: parse input script: no steps")
	}
	for i := range f.Steps {
		st := &f.Steps[i]
		if st.Frames <= 0 {
			st.Frames = 1
		}
		switch st.Action {
		case "pan":
			for _, k := range st.Keys {
				if !validPanKey(k) {
					return nil, fmt.Errorf("iso: input script step %d: unknown key %q", i, k)
				}
			}
		case "zoom", "drag", "wait":
		default:
			return nil, fmt.Errorf("iso: input script step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{steps: f.Steps}, nil
}

func validPanKey(k string) bool {
	switch k {
	case "up", "down", "left", "right":
		return true
	}
	return false
}

// Done reports whether every step has been replayed.
func (s *InputScript) Done() bool {
	return s.cursor >= len(s.steps)
}

// Reset rewinds the script to its first step.
func (s *InputScript) Reset() {
	s.cursor, s.frame = 0, 0
}

// Next returns the input for the next tick, or false once the script is
// done.
func (s *InputScript) Next() (InputState, bool) {
	if s.Done() {
		return InputState{}, false
	}
	st := s.steps[s.cursor]
	var in InputState
	switch st.Action {
	case "pan":
		for _, k := range st.Keys {
			switch k {
			case "up":
				in.Up = true
			case "down":
				in.Down = true
			case "left":
				in.Left = true
			case "right":
				in.Right = true
			}
		}
	case "zoom":
		in.Wheel = st.Wheel
	case "drag":
		in.DragX = st.DX / float64(st.Frames)
		in.DragY = st.DY / float64(st.Frames)
	}

	s.frame++
	if s.frame >= st.Frames {
		s.cursor++
		s.frame = 0
	}
	return in, true
}
