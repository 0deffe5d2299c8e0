package domain

import (
	"encoding/json"
	"time"
)

// stringLayouts are tried in order when resolving a string-shaped date.
var stringLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

type rawDateKind int

const (
	rawDateEmpty rawDateKind = iota
	rawDateTime
	rawDateEpoch
	rawDateString
)

// RawDate is an invoice date as it arrives on the wire. Three shapes are
// accepted: a native time value, an epoch object carrying seconds plus a
// sub-second nanosecond remainder, and a date string. A RawDate is opaque
// until resolved; Resolve never fails, it yields an invalid Instant for
// anything it cannot interpret.
type RawDate struct {
	kind    rawDateKind
	t       time.Time
	seconds int64
	nanos   int64
	s       string
}

// DateFromTime wraps an already-canonical time value.
func DateFromTime(t time.Time) RawDate {
	return RawDate{kind: rawDateTime, t: t}
}

// DateFromEpoch wraps an epoch-seconds value with a nanosecond remainder.
func DateFromEpoch(seconds, nanos int64) RawDate {
	return RawDate{kind: rawDateEpoch, seconds: seconds, nanos: nanos}
}

// DateFromString wraps a string-shaped date. The string is not validated
// here; an unparseable string resolves to an invalid Instant.
func DateFromString(s string) RawDate {
	return RawDate{kind: rawDateString, s: s}
}

// Instant is the resolved form of a RawDate: a single normalized point in
// time, or a distinguishable invalid sentinel. Invalid is deliberately not
// the zero time so downstream code can render "Invalid Date" instead of
// silently treating bad input as the epoch.
type Instant struct {
	time.Time
	Valid bool
}

// Resolve normalizes the raw value to an Instant.
//
// A native time is returned unchanged, so resolving an already-canonical
// value is the identity. The epoch shape converts via
// seconds*1000 + nanos/1e6 milliseconds. A string is parsed against the
// known layouts; if none match the result is invalid.
func (d RawDate) Resolve() Instant {
	switch d.kind {
	case rawDateTime:
		return Instant{Time: d.t, Valid: true}
	case rawDateEpoch:
		ms := d.seconds*1000 + d.nanos/1_000_000
		return Instant{Time: time.UnixMilli(ms).UTC(), Valid: true}
	case rawDateString:
		for _, layout := range stringLayouts {
			if t, err := time.Parse(layout, d.s); err == nil {
				return Instant{Time: t, Valid: true}
			}
		}
	}
	return Instant{}
}

// IsZero reports whether the date is unset.
func (d RawDate) IsZero() bool {
	return d.kind == rawDateEmpty
}

// RawString returns the original string and true for a string-shaped date.
func (d RawDate) RawString() (string, bool) {
	return d.s, d.kind == rawDateString
}

// epochPayload is the wire form of the seconds/nanoseconds shape.
// Seconds is a pointer so an object lacking the member is told apart
// from an explicit zero.
type epochPayload struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
}

// UnmarshalJSON accepts all three wire shapes: a JSON string, a
// {seconds,nanoseconds} object, or null.
func (d *RawDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = RawDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DateFromString(s)
		return nil
	}
	var ep epochPayload
	if err := json.Unmarshal(data, &ep); err != nil {
		return err
	}
	// An object without a seconds member is not the epoch shape. It
	// becomes an unresolvable date, never a silent 1970-01-01.
	if ep.Seconds == nil {
		*d = DateFromString("")
		return nil
	}
	*d = DateFromEpoch(*ep.Seconds, ep.Nanoseconds)
	return nil
}

// MarshalJSON emits the canonical RFC3339 string when the date resolves,
// the original string when it does not, and null for an unset date.
func (d RawDate) MarshalJSON() ([]byte, error) {
	if d.kind == rawDateEmpty {
		return []byte("null"), nil
	}
	if inst := d.Resolve(); inst.Valid {
		return json.Marshal(inst.Format(time.RFC3339))
	}
	return json.Marshal(d.s)
}
