// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package property implements replicated fields and the sets that batch them.
//
// A [Property] tracks three values:
//
//   - current: the value last believed synchronized, written to or read
//     from the store;
//   - pending: the latest locally observed value waiting for a permitted send;
//   - currentOrPending: whichever of the two was set most recently.
//
// Local changes enter as pending values (pushed with SetPendingValue or
// polled from a getter) and are promoted to current when the send rate
// allows it. Remote changes arrive through the owning [Set] and are either
// pushed to the setter right away or buffered for smoothing.
package property

import (
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/snapshot"
	"github.com/MKhiriev/go-sync-framework/models"
)

// Change is the payload of every property event.
type Change[T any] struct {
	Value       T
	Previous    T
	HadPrevious bool
	// UpdateInfo is set for remote changes that carried one.
	UpdateInfo *models.UpdateInfo
}

// Prop is the type-erased view of a Property used by Set.
type Prop interface {
	Key() string
	Type() models.ValueType
	HasCurrentValue() bool
	HasSmoothing() bool

	CheckLocalValueChanged(timestamp float64) bool
	PutCurrentValue(store realtime.DataStore, timestamp float64)
	ApplySnapshotSmoothing(timestamp float64)
	// ApplyStoreValue applies a value read from the store.
	ApplyStoreValue(v models.Value, clearPending, dontTriggerEvents bool, info *models.UpdateInfo)
	// SilentSetValue sets every value slot without firing events.
	SilentSetValue(v models.Value) bool

	setKey(key string)
	setLogger(log *logger.Logger)
}

// Property is a single replicated field of type T.
type Property[T any] struct {
	key    string
	kind   Kind[T]
	equal  func(a, b T) bool
	logger *logger.Logger

	current          slot[T]
	pending          slot[T]
	currentOrPending slot[T]

	getter func() T
	setter func(T)
	buffer *snapshot.Buffer[T]

	sendsPerSecondLimit float64
	lastSendTime        float64
	hasSent             bool
	markedDirty         bool

	OnPendingValueChange observer.Event[Change[T]]
	OnRemoteChange       observer.Event[Change[T]]
	OnLocalChange        observer.Event[Change[T]]
	OnAnyChange          observer.Event[Change[T]]
}

type slot[T any] struct {
	value T
	ok    bool
}

func (s *slot[T]) set(v T) { s.value, s.ok = v, true }

var _ Prop = (*Property[int])(nil)

// New creates a property with no value and no send limit.
func New[T any](key string, kind Kind[T], opts ...Option) *Property[T] {
	p := &Property[T]{
		key:                 key,
		kind:                kind,
		equal:               kind.Equal,
		logger:              logger.Nop(),
		sendsPerSecondLimit: -1,
	}
	p.apply(opts)
	return p
}

func (p *Property[T]) apply(opts []Option) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.sendsPerSecond != nil {
		p.sendsPerSecondLimit = *s.sendsPerSecond
	}
	if s.smoothing != nil {
		p.SetSmoothing(s.smoothing)
	}
}

func (p *Property[T]) Key() string { return p.key }
func (p *Property[T]) Type() models.ValueType { return p.kind.Type }
func (p *Property[T]) Kind() Kind[T] { return p.kind }
func (p *Property[T]) HasCurrentValue() bool { return p.current.ok }
func (p *Property[T]) HasSmoothing() bool { return p.buffer != nil }
func (p *Property[T]) setKey(key string) { p.key = key }
func (p *Property[T]) setLogger(l *logger.Logger) { p.logger = l }

// CurrentValue is the value last believed synchronized.
func (p *Property[T]) CurrentValue() (T, bool) { return p.current.value, p.current.ok }

// PendingValue is the latest local value not yet sent.
func (p *Property[T]) PendingValue() (T, bool) { return p.pending.value, p.pending.ok }

// CurrentOrPendingValue is whichever of current and pending changed last.
func (p *Property[T]) CurrentOrPendingValue() (T, bool) {
	return p.currentOrPending.value, p.currentOrPending.ok
}

// SnapshotBuffer returns the smoothing buffer, or nil.
func (p *Property[T]) SnapshotBuffer() *snapshot.Buffer[T] { return p.buffer }

func (p *Property[T]) SendsPerSecondLimit() float64 { return p.sendsPerSecondLimit }

// SetSendsPerSecondLimit caps how often local changes are written.
// Zero or negative disables the cap.
func (p *Property[T]) SetSendsPerSecondLimit(n float64) { p.sendsPerSecondLimit = n }

// SetEqualsCheck overrides the change detection comparison.
func (p *Property[T]) SetEqualsCheck(eq func(a, b T) bool) {
	if eq == nil {
		eq = p.kind.Equal
	}
	p.equal = eq
}

// SetSmoothing enables snapshot smoothing of remote values, or disables it
// when opts is nil.
func (p *Property[T]) SetSmoothing(opts *snapshot.Options) {
	if opts == nil {
		p.buffer = nil
		return
	}
	p.buffer = snapshot.New[T](p.kind.Lerp, *opts, p.logger)
}

// MarkDirty forces the next permitted check to send the pending value even
// if it equals the current one.
func (p *Property[T]) MarkDirty() { p.markedDirty = true }

// SetPendingValue records a locally changed value. Properties that poll a
// getter ignore it beyond the warning, the getter wins on the next check.
func (p *Property[T]) SetPendingValue(v T) {
	if p.getter != nil {
		p.logger.Warn().Str("key", p.key).Msg("pending value will be overwritten by getter")
	}
	p.checkPendingValueChanged(v)
}

// SetValueImmediate makes v current and writes it to store if it differs
// from the current value.
func (p *Property[T]) SetValueImmediate(store realtime.DataStore, v T, timestamp float64) bool {
	if p.checkCurrentValueChanged(v, true) {
		p.PutCurrentValue(store, timestamp)
		return true
	}
	return false
}

// PutCurrentValue writes the current value to store and records the send.
func (p *Property[T]) PutCurrentValue(store realtime.DataStore, timestamp float64) {
	p.lastSendTime = timestamp
	p.hasSent = true
	if !p.current.ok {
		return
	}
	if err := store.Put(p.key, p.kind.Wrap(p.current.value)); err != nil {
		p.logger.Warn().Err(err).Str("key", p.key).Str("type", string(p.kind.Type)).Msg("error putting property")
	}
}

// CheckWithinSendLimit reports whether a send at timestamp respects the
// rate limit.
func (p *Property[T]) CheckWithinSendLimit(timestamp float64) bool {
	if p.sendsPerSecondLimit <= 0 || !p.hasSent {
		return true
	}
	return p.lastSendTime+1/p.sendsPerSecondLimit <= timestamp
}

// CheckLocalValueChanged polls the getter and, when the rate limit allows,
// promotes the pending value to current. It reports whether current changed.
func (p *Property[T]) CheckLocalValueChanged(timestamp float64) bool {
	if p.getter != nil {
		p.checkPendingValueChanged(p.getter())
	}
	if !p.CheckWithinSendLimit(timestamp) {
		return false
	}
	return p.checkCurrentValueChanged(p.pending.value, p.pending.ok)
}

// ApplySnapshotSmoothing pushes the interpolated value for timestamp to the
// setter.
func (p *Property[T]) ApplySnapshotSmoothing(timestamp float64) {
	if p.buffer == nil {
		return
	}
	v, ok := p.buffer.GetLerpedValue(timestamp + p.buffer.InterpolationTarget())
	if !ok {
		v, ok = p.CurrentOrPendingValue()
	}
	if ok && p.setter != nil {
		p.setter(v)
	}
}

func (p *Property[T]) ApplyStoreValue(v models.Value, clearPending, dontTriggerEvents bool, info *models.UpdateInfo) {
	t, ok := p.kind.Unwrap(v)
	if !ok {
		p.logger.Warn().Str("key", p.key).Str("want", string(p.kind.Type)).Str("got", string(v.Type())).
			Msg("store value has a different type")
		return
	}
	if clearPending {
		p.pending.set(t)
	}
	p.applyRemoteValue(t, dontTriggerEvents, info)
}

func (p *Property[T]) SilentSetValue(v models.Value) bool {
	t, ok := p.kind.Unwrap(v)
	if !ok {
		return false
	}
	p.current.set(t)
	p.pending.set(t)
	p.currentOrPending.set(t)
	return true
}

func (p *Property[T]) applyRemoteValue(v T, dontTriggerEvents bool, info *models.UpdateInfo) {
	prev := p.current
	p.current.set(v)
	p.currentOrPending.set(v)
	if !dontTriggerEvents {
		p.pending.set(v)
		if p.buffer != nil && info != nil && info.SentServerTimeMs != 0 {
			p.buffer.SaveSnapshot(float64(info.SentServerTimeMs)*0.001, v)
		}
	}
	if p.setter != nil && p.buffer == nil {
		p.setter(v)
	}
	if !dontTriggerEvents {
		change := Change[T]{Value: v, Previous: prev.value, HadPrevious: prev.ok, UpdateInfo: info}
		p.OnRemoteChange.Trigger(change)
		p.OnAnyChange.Trigger(change)
	}
}

func (p *Property[T]) checkPendingValueChanged(v T) bool {
	if p.pending.ok && p.equal(v, p.pending.value) {
		return false
	}
	prev := p.pending
	p.pending.set(v)
	p.currentOrPending.set(v)
	p.OnPendingValueChange.Trigger(Change[T]{Value: v, Previous: prev.value, HadPrevious: prev.ok})
	return true
}

func (p *Property[T]) checkCurrentValueChanged(v T, ok bool) bool {
	p.pending = slot[T]{value: v, ok: ok}
	if !ok {
		return false
	}
	if !p.markedDirty && p.current.ok && p.equal(v, p.current.value) {
		return false
	}
	p.markedDirty = false
	prev := p.current
	p.current.set(v)
	p.currentOrPending.set(v)
	change := Change[T]{Value: v, Previous: prev.value, HadPrevious: prev.ok}
	p.OnLocalChange.Trigger(change)
	p.OnAnyChange.Trigger(change)
	return true
}
