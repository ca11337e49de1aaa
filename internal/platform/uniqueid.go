package platform

import "strings"

// Segment types used in unique ids.
const (
	SegmentEngine        = "engine"
	SegmentSpecification = "specification"
	SegmentExample       = "example"
)

// Segment is one (type, value) pair of a UniqueID.
type Segment struct {
	Type  string
	Value string
}

// UniqueID identifies a descriptor within a tree. It is an immutable,
// ordered list of segments rendered as "type:value/type:value".
type UniqueID struct {
	segments []Segment
}

// ForEngine creates the root id of an engine.
func ForEngine(engineID string) UniqueID {
	return UniqueID{segments: []Segment{{Type: SegmentEngine, Value: engineID}}}
}

// Append returns a new id with one more segment. The receiver is unchanged.
func (u UniqueID) Append(segmentType, value string) UniqueID {
	segs := make([]Segment, len(u.segments), len(u.segments)+1)
	copy(segs, u.segments)
	return UniqueID{segments: append(segs, Segment{Type: segmentType, Value: value})}
}

// Segments returns a copy of the segments.
func (u UniqueID) Segments() []Segment {
	out := make([]Segment, len(u.segments))
	copy(out, u.segments)
	return out
}

// Last returns the last segment, or the zero Segment for an empty id.
func (u UniqueID) Last() Segment {
	if len(u.segments) == 0 {
		return Segment{}
	}
	return u.segments[len(u.segments)-1]
}

// EngineID returns the value of the leading engine segment.
func (u UniqueID) EngineID() string {
	if len(u.segments) == 0 || u.segments[0].Type != SegmentEngine {
		return ""
	}
	return u.segments[0].Value
}

// IsZero reports whether the id has no segments.
func (u UniqueID) IsZero() bool {
	return len(u.segments) == 0
}

// Equal compares two ids segment by segment.
func (u UniqueID) Equal(other UniqueID) bool {
	if len(u.segments) != len(other.segments) {
		return false
	}
	for i := range u.segments {
		if u.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// String renders the id.
func (u UniqueID) String() string {
	parts := make([]string, len(u.segments))
	for i, s := range u.segments {
		parts[i] = s.Type + ":" + s.Value
	}
	return strings.Join(parts, "/")
}
