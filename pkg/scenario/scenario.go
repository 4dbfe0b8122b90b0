package scenario

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/observability"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Scenario is an ordered log of commands with a playback cursor. Commands
// [0, Cursor) have been applied to the host.
//
// All methods are safe for concurrent use, but playback is serialized: a
// Forward or Back holds the scenario lock while its command runs.
type Scenario struct {
	mu sync.Mutex

	id      string
	name    string
	created time.Time

	host      viz.Host
	cmds      []viz.Command
	cursor    int
	recording bool
	initial   []structure.Entry
}

// Option configures a Scenario.
type Option func(*Scenario)

// WithID overrides the generated document ID.
func WithID(id string) Option { return func(s *Scenario) { s.id = id } }

// WithName sets a human-readable name.
func WithName(name string) Option { return func(s *Scenario) { s.name = name } }

// WithCreated overrides the creation time.
func WithCreated(t time.Time) Option { return func(s *Scenario) { s.created = t } }

// WithInitial sets the node snapshot stored in exported documents. By
// default it is taken from the host when the host is a *structure.Tree.
func WithInitial(entries []structure.Entry) Option {
	return func(s *Scenario) { s.initial = entries }
}

// New starts recording against host.
func New(host viz.Host, opts ...Option) *Scenario {
	s := &Scenario{
		id:        uuid.NewString(),
		created:   time.Now().UTC(),
		host:      host,
		recording: true,
	}
	if t, ok := host.(*structure.Tree); ok {
		s.initial = t.Entries()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newPlayer returns a scenario that is not recording, positioned at 0.
func newPlayer(host viz.Host, cmds []viz.Command, opts ...Option) *Scenario {
	s := New(host, opts...)
	s.cmds = cmds
	s.recording = false
	return s
}

// ID returns the document ID.
func (s *Scenario) ID() string { return s.id }

// Name returns the scenario name.
func (s *Scenario) Name() string { return s.name }

// Created returns the creation time.
func (s *Scenario) Created() time.Time { return s.created }

// Host returns the host commands are applied to.
func (s *Scenario) Host() viz.Host { return s.host }

// Record appends c. It implements viz.Recorder. Record fails with
// ILLEGAL_RECORDING_STATE after Stop or when the cursor is not at the end
// of the log.
func (s *Scenario) Record(c viz.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return errors.New(errors.ErrCodeIllegalRecordingState, "scenario %s is not recording", s.id)
	}
	if s.cursor != len(s.cmds) {
		return errors.New(errors.ErrCodeIllegalRecordingState,
			"cannot record at step %d of %d; truncate first", s.cursor, len(s.cmds))
	}
	s.cmds = append(s.cmds, c)
	s.cursor++
	observability.Scenario().OnAppend(string(c.Action()))
	return nil
}

// Forward executes the command at the cursor and advances. It reports false,
// doing nothing, when the cursor is already at the end.
func (s *Scenario) Forward() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forwardLocked()
}

// Back moves the cursor back and unexecutes the command there. It reports
// false, doing nothing, at the start.
func (s *Scenario) Back() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backLocked()
}

// Rewind steps back to the start and returns the number of commands undone.
func (s *Scenario) Rewind() (int, error) {
	return s.Seek(0)
}

// FastForward steps to the end and returns the number of commands applied.
func (s *Scenario) FastForward() (int, error) {
	s.mu.Lock()
	n := len(s.cmds)
	s.mu.Unlock()
	return s.Seek(n)
}

// Seek steps until the cursor equals pos, clamped to [0, Len]. It returns
// the number of commands applied or undone. On error the cursor stays on
// the last command that succeeded.
func (s *Scenario) Seek(pos int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos = min(max(pos, 0), len(s.cmds))
	moved := 0
	for s.cursor != pos {
		var err error
		if s.cursor < pos {
			_, err = s.forwardLocked()
		} else {
			_, err = s.backLocked()
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// Truncate discards every command after the cursor and returns how many were
// dropped. Recording can then continue from the cursor.
func (s *Scenario) Truncate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := len(s.cmds) - s.cursor
	clear(s.cmds[s.cursor:])
	s.cmds = s.cmds[:s.cursor]
	return dropped
}

// Stop ends recording. The scenario remains usable as a player.
func (s *Scenario) Stop() {
	s.mu.Lock()
	s.recording = false
	s.mu.Unlock()
}

// Recording reports whether Record accepts commands.
func (s *Scenario) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Len returns the number of commands in the log.
func (s *Scenario) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cmds)
}

// Cursor returns the number of commands currently applied.
func (s *Scenario) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Commands returns a copy of the log.
func (s *Scenario) Commands() []viz.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]viz.Command, len(s.cmds))
	copy(out, s.cmds)
	return out
}

// Initial returns the node snapshot taken when recording started.
func (s *Scenario) Initial() []structure.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initial
}

func (s *Scenario) forwardLocked() (bool, error) {
	if s.cursor >= len(s.cmds) {
		return false, nil
	}
	c := s.cmds[s.cursor]
	if err := viz.Execute(s.host, c); err != nil {
		return false, fmt.Errorf("step %d forward: %w", s.cursor, err)
	}
	s.cursor++
	observability.Scenario().OnStep(observability.Forward, string(c.Action()))
	return true, nil
}

func (s *Scenario) backLocked() (bool, error) {
	if s.cursor <= 0 {
		return false, nil
	}
	c := s.cmds[s.cursor-1]
	if err := viz.Unexecute(s.host, c); err != nil {
		return false, fmt.Errorf("step %d back: %w", s.cursor-1, err)
	}
	s.cursor--
	observability.Scenario().OnStep(observability.Backward, string(c.Action()))
	return true, nil
}

var _ viz.Recorder = (*Scenario)(nil)
