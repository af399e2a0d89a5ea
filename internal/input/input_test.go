package input

import (
	"bufio"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  []Action
		burst int
	}{
		{"empty", "", nil, -1},
		{"shoot", " f", []Action{ActionShoot, ActionShoot}, -1},
		{"arrows", "\x1b[A\x1b[B\x1b[C", []Action{ActionWaveUp, ActionWaveDown}, -1},
		{"lone_escape", "\x1b", []Action{ActionBack}, -1},
		{"escape_then_key", "\x1bq", []Action{ActionBack, ActionQuit}, -1},
		{"digits_last_wins", "37", nil, 7},
		{"mixed", "a3\r", []Action{ActionAsteroid, ActionStart}, 3},
		{"ctrl_c", "\x03", []Action{ActionQuit}, -1},
		{"unbound", "zzz", nil, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Parse([]byte(c.in))
			if !reflect.DeepEqual(got.Actions, c.want) {
				t.Errorf("actions = %v, want %v", got.Actions, c.want)
			}
			if got.Burst != c.burst {
				t.Errorf("burst = %d, want %d", got.Burst, c.burst)
			}
			if string(got.Pressed) != c.in {
				t.Errorf("pressed = %q, want %q", got.Pressed, c.in)
			}
		})
	}
}

func TestHas(t *testing.T) {
	in := Parse([]byte("gm"))
	if !in.Has(ActionGameplayMusic) || !in.Has(ActionMenuMusic) || in.Has(ActionQuit) {
		t.Errorf("Has mismatch for %v", in.Actions)
	}
}

func TestBindingsCoverEveryAction(t *testing.T) {
	seen := map[Action]bool{}
	for _, b := range Bindings() {
		seen[b.Action] = true
		if b.Action.String() == "unknown" {
			t.Errorf("binding %q has no name", b.Keys)
		}
	}
	for a := ActionShoot; a <= ActionQuit; a++ {
		if !seen[a] {
			t.Errorf("no binding for %v", a)
		}
	}
}

func TestReadInputReportsClose(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("hx")))

	var actions []Action
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		actions = append(actions, in.Actions...)
		if in.Closed {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if want := []Action{ActionDamage, ActionExplode}; !reflect.DeepEqual(actions, want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	if in := ReadInput(s); !in.Closed || len(in.Pressed) != 0 {
		t.Fatalf("after close got %+v", in)
	}
}
