package windsway

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a preview script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Time    float64 `json:"time,omitempty"`
	Percent float64 `json:"percent,omitempty"`
	Frames  int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a preview script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptHost is what a ScriptRunner drives: a playback clock and a way to
// capture the frame currently on screen.
type ScriptHost interface {
	Player() *Player
	Screenshot(label string)
}

// ScriptRunner sequences playback commands and screenshots across display
// frames for automated visual checks of a document.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON preview script:
//
//	{"steps": [
//	  {"action": "seek", "time": 1.5},
//	  {"action": "screenshot", "label": "bent"},
//	  {"action": "play"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "pause"}
//	]}
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "seek", "seekPercent", "play", "pause", "stop", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one display frame.
func (r *ScriptRunner) Step(h ScriptHost) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	p := h.Player()
	switch st.Action {
	case "seek":
		p.Seek(st.Time)
	case "seekPercent":
		p.SeekPercent(st.Percent)
	case "play":
		p.Play()
	case "pause":
		p.Pause()
	case "stop":
		p.Stop()
	case "screenshot":
		h.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
