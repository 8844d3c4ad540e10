package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"store-locator/internal/domain"
	"store-locator/internal/services"
	"strconv"
	"strings"
	"time"
)

var errQuit = errors.New("quit")

// mapWidget is the part of the terminal widget the shell drives.
type mapWidget interface {
	Pan(dx, dy float64) error
	Zoom(factor float64) error
	AffordanceStatus(now time.Time) string
}

// shell turns typed commands into map gestures and confirmations.
type shell struct {
	view   *services.StoreLocatorView
	widget mapWidget
	out    io.Writer
}

const helpText = `commands:
  pan <n|s|e|w> [fraction]  move the map by a fraction of the visible span (default 0.5)
  zoom <in|out>             halve or double the visible span
  update                    fetch stores for the current region
  state                     print the sync state
  stores                    list the displayed stores
  help                      show this help
  quit                      exit`

// run reads commands until input ends, ctx is done or quit is typed.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := s.execute(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

func (s *shell) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "pan":
		return s.pan(fields[1:])
	case "zoom":
		return s.zoom(fields[1:])
	case "update":
		s.view.Confirm()
		return nil
	case "state":
		s.printState()
		return nil
	case "stores":
		s.printStores()
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func (s *shell) pan(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: pan <n|s|e|w> [fraction]")
	}

	step := 0.5
	if len(args) > 1 {
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid fraction %q", args[1])
		}
		step = v
	}

	switch strings.ToLower(args[0]) {
	case "n", "north":
		return s.widget.Pan(0, step)
	case "s", "south":
		return s.widget.Pan(0, -step)
	case "e", "east":
		return s.widget.Pan(step, 0)
	case "w", "west":
		return s.widget.Pan(-step, 0)
	default:
		return fmt.Errorf("unknown direction %q", args[0])
	}
}

func (s *shell) zoom(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: zoom <in|out>")
	}
	switch strings.ToLower(args[0]) {
	case "in":
		return s.widget.Zoom(0.5)
	case "out":
		return s.widget.Zoom(2)
	default:
		return fmt.Errorf("unknown zoom %q", args[0])
	}
}

func (s *shell) printState() {
	snap := s.view.Snapshot()

	fmt.Fprintf(s.out, "phase: %s\n", snap.State.Phase)
	if snap.State.Phase != domain.AwaitingLocation {
		fmt.Fprintf(s.out, "viewport: %s\n", snap.State.Viewport)
	}
	fmt.Fprintf(s.out, "update visible: %t\n", snap.AffordanceVisible)
	fmt.Fprintf(s.out, "update control: %s\n", s.widget.AffordanceStatus(time.Now()))
	fmt.Fprintf(s.out, "fetches: %d\n", snap.FetchesStarted)
	if snap.AcquisitionErr != nil {
		fmt.Fprintf(s.out, "location error: %s\n", snap.AcquisitionErr.Message)
	}
	if snap.LastFetchErr != nil {
		fmt.Fprintf(s.out, "last fetch error: %v\n", snap.LastFetchErr)
	}
}

func (s *shell) printStores() {
	stores := s.view.Snapshot().Stores
	if len(stores) == 0 {
		fmt.Fprintln(s.out, "no stores displayed")
		return
	}
	for _, m := range domain.Markers(stores) {
		fmt.Fprintf(s.out, "%s  %s | %s | %s\n", m.ID, m.Title, m.Address, m.Fee)
	}
}
