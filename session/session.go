// Package session tracks per-user map selection flows. A session walks
// mode, map, and variant choices toward a confirmation step; it only
// ever moves forward, and ends in exactly one of applied, cancelled, or
// expired.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gbone001/HLL-Map-Switcher/catalog"
)

// Step is one stage of the selection flow.
type Step int

const (
	StepChooseMode Step = iota
	StepChooseMap
	StepChooseVariant
	StepConfirm
	StepApplied
	StepCancelled
	StepExpired
)

var stepNames = map[Step]string{
	StepChooseMode:    "choose-mode",
	StepChooseMap:     "choose-map",
	StepChooseVariant: "choose-variant",
	StepConfirm:       "confirm",
	StepApplied:       "applied",
	StepCancelled:     "cancelled",
	StepExpired:       "expired",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s Step) Terminal() bool {
	return s == StepApplied || s == StepCancelled || s == StepExpired
}

var (
	// ErrWrongStep marks an event that does not belong to the current step.
	ErrWrongStep = errors.New("session: event does not match current step")
	// ErrFinished marks events arriving after the session reached a
	// terminal step.
	ErrFinished = errors.New("session: already finished")
)

// Key identifies a session: one flow message, one user.
type Key struct {
	MessageID string
	UserID    string
}

// Session is one user's in-flight selection. Callers serialize access
// through the store; the session itself does no locking.
type Session struct {
	Key      Key
	ServerID string

	step    Step
	mode    catalog.GameMode
	mapName string
	variant catalog.Variant

	// LastError carries the failure text of the most recent apply
	// attempt, shown alongside the confirm step.
	LastError string

	createdAt time.Time
	touchedAt time.Time

	mu sync.Mutex

	cat *catalog.Catalog
}

func newSession(key Key, serverID string, cat *catalog.Catalog, now time.Time) *Session {
	return &Session{
		Key:       key,
		ServerID:  serverID,
		step:      StepChooseMode,
		createdAt: now,
		touchedAt: now,
		cat:       cat,
	}
}

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// Mode returns the chosen game mode, zero until one is picked.
func (s *Session) Mode() catalog.GameMode { return s.mode }

// MapName returns the chosen map name, empty until one is picked.
func (s *Session) MapName() string { return s.mapName }

// Variant returns the chosen variant, zero until one is picked.
func (s *Session) Variant() catalog.Variant { return s.variant }

func (s *Session) guard(want Step) error {
	if s.step.Terminal() {
		return fmt.Errorf("%w: %s", ErrFinished, s.step)
	}
	if s.step != want {
		return fmt.Errorf("%w: got %s event at %s", ErrWrongStep, want, s.step)
	}
	return nil
}

// ChooseMode records the game mode and advances to map choice.
func (s *Session) ChooseMode(mode catalog.GameMode, now time.Time) error {
	if err := s.guard(StepChooseMode); err != nil {
		return err
	}
	if _, err := s.cat.ListMaps(mode); err != nil {
		return err
	}
	s.mode = mode
	s.step = StepChooseMap
	s.touchedAt = now
	return nil
}

// ChooseMap records the map. Maps with a single variant skip the
// variant step and land directly on confirmation.
func (s *Session) ChooseMap(name string, now time.Time) error {
	if err := s.guard(StepChooseMap); err != nil {
		return err
	}
	variants, err := s.cat.ListVariants(s.mode, name)
	if err != nil {
		return err
	}
	s.mapName = name
	s.touchedAt = now
	if len(variants) == 1 {
		s.variant = variants[0]
		s.step = StepConfirm
		return nil
	}
	s.step = StepChooseVariant
	return nil
}

// ChooseVariant records the variant and advances to confirmation.
func (s *Session) ChooseVariant(label string, now time.Time) error {
	if err := s.guard(StepChooseVariant); err != nil {
		return err
	}
	variant, err := s.cat.Variant(s.mode, s.mapName, label)
	if err != nil {
		return err
	}
	s.variant = variant
	s.step = StepConfirm
	s.touchedAt = now
	return nil
}

// ConfirmTarget returns the layer the session would apply. Only valid
// at the confirm step.
func (s *Session) ConfirmTarget() (catalog.Variant, error) {
	if err := s.guard(StepConfirm); err != nil {
		return catalog.Variant{}, err
	}
	return s.variant, nil
}

// Applied marks the selection as successfully applied.
func (s *Session) Applied(now time.Time) error {
	if err := s.guard(StepConfirm); err != nil {
		return err
	}
	s.step = StepApplied
	s.LastError = ""
	s.touchedAt = now
	return nil
}

// ApplyFailed records a failed apply attempt. The session stays at the
// confirm step so the user can retry or cancel.
func (s *Session) ApplyFailed(reason string, now time.Time) error {
	if err := s.guard(StepConfirm); err != nil {
		return err
	}
	s.LastError = reason
	s.touchedAt = now
	return nil
}

// Cancel ends the session from any non-terminal step.
func (s *Session) Cancel(now time.Time) error {
	if s.step.Terminal() {
		return fmt.Errorf("%w: %s", ErrFinished, s.step)
	}
	s.step = StepCancelled
	s.touchedAt = now
	return nil
}

func (s *Session) expire() {
	if !s.step.Terminal() {
		s.step = StepExpired
	}
}

// IdleSince reports how long the session has gone without an event.
func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.touchedAt)
}
