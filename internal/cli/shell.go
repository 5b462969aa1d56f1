// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/audchan"
	"github.com/ik5/audchan/channel"
)

var errQuit = errors.New("quit")

const shellHelp = `commands:
  play <path>...          start one or more sounds
  stop <se|bgm> <id>      stop a playing id
  stopbgm [duration]      fade the music out (default: fade setting)
  volume <se|bgm> [0..1]  show or set a category volume
  mute <se|bgm>           mute a category
  unmute <se|bgm>         unmute a category
  status                  show every voice
  help                    this text
  quit                    leave the shell
`

// Shell runs line commands against a manager.
type Shell struct {
	m    *audchan.Manager
	out  io.Writer
	fade time.Duration
}

func NewShell(m *audchan.Manager, out io.Writer, fade time.Duration) *Shell {
	return &Shell{m: m, out: out, fade: fade}
}

// Run executes every line of in until EOF, quit or ctx ends. Command errors
// are printed and do not end the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader, prompt bool) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)

		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			err := s.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

// Exec runs one command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "play":
		return s.play(ctx, args)
	case "stop":
		return s.stop(args)
	case "stopbgm":
		return s.stopBgm(ctx, args)
	case "volume", "vol":
		return s.volume(args)
	case "mute", "unmute":
		cat, err := categoryArg(args, 1)
		if err != nil {
			return err
		}
		s.m.SetMute(cat, cmd == "mute")
		return nil
	case "status":
		fmt.Fprint(s.out, s.m.Snapshot())
		return nil
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (s *Shell) play(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: play <path>...")
	}

	for _, path := range paths {
		id := s.m.Play(ctx, path)
		if id == audchan.InvalidID {
			fmt.Fprintf(s.out, "%s: not started\n", path)
			continue
		}
		fmt.Fprintf(s.out, "%s: id %d\n", path, id)
	}
	return nil
}

func (s *Shell) stop(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: stop <se|bgm> <id>")
	}

	cat, err := categoryArg(args, 2)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid id %q", args[1])
	}

	s.m.Stop(cat, id)
	return nil
}

func (s *Shell) stopBgm(ctx context.Context, args []string) error {
	d := s.fade
	if len(args) > 0 {
		var err error
		if d, err = time.ParseDuration(args[0]); err != nil {
			return fmt.Errorf("invalid duration %q", args[0])
		}
	}
	return s.m.StopBgm(ctx, d)
}

func (s *Shell) volume(args []string) error {
	cat, err := categoryArg(args, 2)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		fmt.Fprintf(s.out, "%s: %.2f\n", cat, s.m.Volume(cat))
		return nil
	}

	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q", args[1])
	}
	s.m.SetVolume(cat, v)
	return nil
}

// categoryArg parses args[0] as a category, allowing at most max args.
func categoryArg(args []string, max int) (channel.Category, error) {
	if len(args) == 0 || len(args) > max {
		return channel.None, errors.New("expected a category: se or bgm")
	}
	return channel.Parse(args[0])
}
