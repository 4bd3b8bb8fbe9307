package iso

import "testing"

func TestLoadInputScript(t *testing.T) {
	s, err := LoadInputScript([]byte(`{
		"steps": [
			{"action": "pan", "keys": ["up", "right"], "frames": 2},
			{"action": "zoom", "wheel": -1},
			{"action": "drag", "dx": 30, "dy": -9, "frames": 3},
			{"action": "wait", "frames": 2}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []InputState
	for {
		in, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, in)
	}
	if len(got) != 8 {
		t.Fatalf("replayed %d ticks, want 8", len(got))
	}
	if !got[0].Up || !got[0].Right || !got[1].Up || got[2].Up {
		t.Errorf("pan ticks = %+v %+v %+v", got[0], got[1], got[2])
	}
	if got[2].Wheel != -1 {
		t.Errorf("zoom tick Wheel = %v", got[2].Wheel)
	}
	for i := 3; i < 6; i++ {
		if got[i].DragX != 10 || got[i].DragY != -3 {
			t.Errorf("drag tick %d = %+v", i, got[i])
		}
	}
	if got[6] != (InputState{}) || got[7] != (InputState{}) {
		t.Errorf("wait ticks = %+v %+v", got[6], got[7])
	}
	if !s.Done() {
		t.Error("Done = false after replay")
	}

	s.Reset()
	if s.Done() {
		t.Error("Done = true after Reset")
	}
}

func TestLoadInputScriptErrors(t *testing.T) {
	bad := []string{
		`not json`,
		`{"steps": []}`,
		`{"steps": [{"action": "jump"}]}`,
		`{"steps": [{"action": "pan", "keys": ["sideways"]}]}`,
	}
	for _, data := range bad {
		if _, err := LoadInputScript([]byte(data)); err == nil {
			t.Errorf("LoadInputScript(%s) succeeded", data)
		}
	}
}

func TestInputScriptDrivesCamera(t *testing.T) {
	s, err := LoadInputScript([]byte(`{"steps": [{"action": "pan", "keys": ["down"], "frames": 4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	cam := newTestCamera()
	for {
		in, ok := s.Next()
		if !ok {
			break
		}
		cam.Update(in, 0)
	}
	tx, ty := cam.Target()
	want := 4 * 0.5 / 1.4142135623730951
	if !approxEqual(tx, want, 1e-9) || !approxEqual(ty, want, 1e-9) {
		t.Errorf("target = (%v,%v), want (%v,%v)", tx, ty, want, want)
	}
}
