package terminal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"elderease/internal/widget"
	"elderease/pkg/log"
)

// CommandSynthesizer speaks through an external text-to-speech program such as
// espeak-ng or say. The command template may use the placeholders {lang}, {rate}
// and {pitch}; the text itself is written to the program's stdin.
type CommandSynthesizer struct {
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandSynthesizer parses a command line like "espeak-ng -v {lang} --stdin".
func NewCommandSynthesizer(command string) (*CommandSynthesizer, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New("empty speech command")
	}
	return &CommandSynthesizer{args: args}, nil
}

// Speak starts the program and returns; the previous utterance, if still running, is stopped.
func (s *CommandSynthesizer) Speak(ctx context.Context, u widget.Utterance) error {
	args := s.expand(u)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(u.Text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}
	s.cmd = cmd
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debugf("speech command ended: %v", err)
		}
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

// Cancel stops the running utterance.
func (s *CommandSynthesizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *CommandSynthesizer) stopLocked() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	s.cmd = nil
}

func (s *CommandSynthesizer) expand(u widget.Utterance) []string {
	r := strings.NewReplacer(
		"{lang}", u.Lang,
		"{rate}", strconv.FormatFloat(u.Rate, 'f', -1, 64),
		"{pitch}", strconv.FormatFloat(u.Pitch, 'f', -1, 64),
	)
	out := make([]string, len(s.args))
	for i, a := range s.args {
		out[i] = r.Replace(a)
	}
	return out
}
