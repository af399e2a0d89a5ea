package input

import (
	"bufio"
)

// Action is a console command produced by a key press.
type Action int

const (
	ActionNone Action = iota
	ActionShoot
	ActionDamage
	ActionExplode
	ActionAsteroid
	ActionMenuMusic
	ActionGameplayMusic
	ActionStopMusic
	ActionWaveUp
	ActionWaveDown
	ActionResetKills
	ActionStart
	ActionBack
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionShoot:         "shoot",
	ActionDamage:        "damage",
	ActionExplode:       "explode",
	ActionAsteroid:      "asteroid",
	ActionMenuMusic:     "menu music",
	ActionGameplayMusic: "gameplay music",
	ActionStopMusic:     "stop music",
	ActionWaveUp:        "wave up",
	ActionWaveDown:      "wave down",
	ActionResetKills:    "reset kills",
	ActionStart:         "start",
	ActionBack:          "back",
	ActionQuit:          "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Binding describes the keys for one action, for help screens.
type Binding struct {
	Keys   string
	Action Action
}

// Bindings lists the key map in display order.
func Bindings() []Binding {
	return []Binding{
		{"space f", ActionShoot},
		{"a", ActionAsteroid},
		{"0-9", ActionAsteroid},
		{"h", ActionDamage},
		{"x", ActionExplode},
		{"up +", ActionWaveUp},
		{"down -", ActionWaveDown},
		{"m", ActionMenuMusic},
		{"g", ActionGameplayMusic},
		{"s", ActionStopMusic},
		{"r", ActionResetKills},
		{"enter", ActionStart},
		{"esc", ActionBack},
		{"q", ActionQuit},
	}
}

// Input is everything read since the previous frame.
type Input struct {
	Actions []Action
	// Burst is the asteroid count requested with a digit key, 0 meaning ten.
	// -1 when no digit was pressed.
	Burst   int
	Pressed []byte
	Closed  bool // The underlying reader has ended
}

// Has reports whether a was pressed this frame.
func (in Input) Has(a Action) bool {
	for _, got := range in.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// parses them into actions.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse turns raw terminal bytes into actions. Arrow keys arrive as
// ESC [ A/B/C/D; a lone ESC is Back.
func Parse(buf []byte) Input {
	in := Input{Burst: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				in.Actions = append(in.Actions, ActionWaveUp)
				i += 2
				continue
			case 'B':
				in.Actions = append(in.Actions, ActionWaveDown)
				i += 2
				continue
			case 'C', 'D':
				i += 2
				continue
			}
		}

		if b >= '0' && b <= '9' {
			in.Burst = int(b - '0')
			continue
		}
		if a := byteAction(b); a != ActionNone {
			in.Actions = append(in.Actions, a)
		}
	}
	return in
}

func byteAction(b byte) Action {
	switch b {
	case 'q', 'Q', '\x03':
		return ActionQuit
	case ' ', 'f', 'F':
		return ActionShoot
	case 'a', 'A':
		return ActionAsteroid
	case 'h', 'H':
		return ActionDamage
	case 'x', 'X':
		return ActionExplode
	case '+', '=':
		return ActionWaveUp
	case '-', '_':
		return ActionWaveDown
	case 'm', 'M':
		return ActionMenuMusic
	case 'g', 'G':
		return ActionGameplayMusic
	case 's', 'S':
		return ActionStopMusic
	case 'r', 'R':
		return ActionResetKills
	case '\n', '\r':
		return ActionStart
	case '\x1b':
		return ActionBack
	}
	return ActionNone
}
