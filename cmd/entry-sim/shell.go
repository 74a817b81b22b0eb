//go:build !tinygo

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"bitentry-go/bus"
	"bitentry-go/services/entry"
	"bitentry-go/services/hal"
	"bitentry-go/types"
)

const simKey = "$sim"

// sim is the shell state. Commands run one at a time on the shell goroutine.
type sim struct {
	Shell *ishell.Shell

	svc      *entry.Service
	fb       *hal.FakeBoard
	cfg      types.EntryConfig
	realtime bool
}

func newSim(svc *entry.Service, fb *hal.FakeBoard, cfg types.EntryConfig, realtime bool) *sim {
	s := &sim{Shell: ishell.New(), svc: svc, fb: fb, cfg: cfg, realtime: realtime}
	s.Shell.Set(simKey, s)
	s.Shell.SetPrompt("[char_entry] > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

func simFrom(c *ishell.Context) *sim {
	return c.Get(simKey).(*sim)
}

// advance moves simulated time forward by ms ticks.
func (s *sim) advance(ms int) {
	if s.realtime {
		time.Sleep(time.Duration(ms) * time.Duration(s.cfg.TickMs) * time.Millisecond)
		return
	}
	s.svc.Step(ms)
}

// click presses and releases a button, leaving the debouncer settled.
func (s *sim) click(b entry.Button) {
	s.fb.ButtonPins[b].Press()
	s.advance(hal.DefaultDebounceMs)
	s.fb.ButtonPins[b].Release()
	s.advance(hal.DefaultDebounceMs)
}

// bits clicks BTN0/BTN1 for the low n bits of v, LSB first.
func (s *sim) bits(v byte, n int) {
	for i := 0; i < n; i++ {
		s.click(entry.Button((v >> i) & 1))
	}
}

// watch mirrors transmissions and state changes into the shell.
func (s *sim) watch(ctx context.Context, conn *bus.Connection) {
	stateSub := conn.Subscribe(bus.T("entry", "state"))
	defer conn.Unsubscribe(stateSub)
	txSub := conn.Subscribe(bus.T("entry", "tx"))
	defer conn.Unsubscribe(txSub)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-stateSub.Channel():
			if st, ok := m.Payload.(types.StateValue); ok {
				s.Shell.SetPrompt("[" + st.State + "] > ")
			}
		case m := <-txSub.Channel():
			if tx, ok := m.Payload.(types.Transmission); ok {
				s.Shell.Printf("TX #%d: %q\n", tx.Seq, tx.Text)
			}
		}
	}
}

func parseButtons(args []string) ([]entry.Button, error) {
	var out []entry.Button
	for _, a := range args {
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(a), "btn"))
		if err != nil || n < 0 || n >= entry.NumButtons {
			return nil, fmt.Errorf("bad button %q (want 0..3)", a)
		}
		out = append(out, entry.Button(n))
	}
	return out, nil
}

var commands = []*ishell.Cmd{
	&PressCmd,
	&HoldCmd,
	&ReleaseCmd,
	&TickCmd,
	&BitsCmd,
	&TypeCmd,
	&StandbyCmd,
	&StatusCmd,
}

var (
	// PressCmd clicks buttons in order.
	PressCmd = ishell.Cmd{
		Name:    "press",
		Aliases: []string{"p"},
		Help:    "BTN... click buttons (0..3) in order",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			btns, err := parseButtons(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			for _, b := range btns {
				s.click(b)
			}
		},
	}

	// HoldCmd presses buttons without releasing them.
	HoldCmd = ishell.Cmd{
		Name: "hold",
		Help: "BTN... press and keep held",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			btns, err := parseButtons(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			for _, b := range btns {
				s.fb.ButtonPins[b].Press()
			}
			s.advance(1)
		},
	}

	// ReleaseCmd releases the named buttons, or all of them.
	ReleaseCmd = ishell.Cmd{
		Name: "release",
		Help: "[BTN...] release buttons (all when none given)",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			btns, err := parseButtons(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if len(btns) == 0 {
				btns = []entry.Button{entry.BtnZero, entry.BtnOne, entry.BtnClear, entry.BtnEnter}
			}
			for _, b := range btns {
				s.fb.ButtonPins[b].Release()
			}
			s.advance(hal.DefaultDebounceMs)
		},
	}

	// TickCmd advances time.
	TickCmd = ishell.Cmd{
		Name:    "tick",
		Aliases: []string{"t"},
		Help:    "[N] advance N ticks (default 1)",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) > 0 {
				v, err := strconv.Atoi(c.Args[0])
				if err != nil || v < 0 {
					c.Err(fmt.Errorf("bad tick count %q", c.Args[0]))
					return
				}
				n = v
			}
			simFrom(c).advance(n)
		},
	}

	// BitsCmd enters a literal bit sequence.
	BitsCmd = ishell.Cmd{
		Name:    "bits",
		Aliases: []string{"b"},
		Help:    "01... click BTN0/BTN1 for each digit, left to right",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			seq := strings.Join(c.Args, "")
			for _, r := range seq {
				if r != '0' && r != '1' {
					c.Err(fmt.Errorf("bad bit %q", r))
					return
				}
			}
			for _, r := range seq {
				s.click(entry.Button(r - '0'))
			}
		},
	}

	// TypeCmd enters text one character at a time. The last character is
	// left pending in string_build; BTN3 finalises it.
	TypeCmd = ishell.Cmd{
		Name: "type",
		Help: "TEXT enter each character LSB first",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			text := strings.Join(c.Args, " ")
			for i := 0; i < len(text); i++ {
				s.bits(text[i], entry.BitsPerChar)
				if s.svc.Snapshot().State == entry.CharEntry {
					s.click(entry.BtnEnter)
				}
			}
		},
	}

	// StandbyCmd holds BTN0 and BTN1 past the standby threshold.
	StandbyCmd = ishell.Cmd{
		Name: "standby",
		Help: "hold BTN0+BTN1 until standby",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			s.fb.ButtonPins[entry.BtnZero].Press()
			s.fb.ButtonPins[entry.BtnOne].Press()
			s.advance(int(s.cfg.HoldMs) + hal.DefaultDebounceMs + 1)
			s.fb.ButtonPins[entry.BtnZero].Release()
			s.fb.ButtonPins[entry.BtnOne].Release()
			s.advance(hal.DefaultDebounceMs)
		},
	}

	// StatusCmd prints the session and LED bank.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "show state, character, string and LEDs",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			snap := s.svc.Snapshot()
			c.Printf("state:  %s", snap.State)
			if snap.State == entry.Standby {
				c.Printf(" (from %s, pulse %d%%)", snap.Previous, snap.Duty)
			}
			c.Println()
			c.Printf("char:   0x%02X (%d bits)\n", snap.Char, snap.Bits)
			c.Printf("string: %q\n", snap.Text)
			for ch := entry.Channel(0); ch < entry.NumChannels; ch++ {
				on, duty := s.fb.LEDs.State(ch)
				c.Printf("led%d:   on=%v duty=%d\n", ch, on, duty)
			}
		},
	}
)
