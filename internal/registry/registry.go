// Package registry tracks logged stream registrations during the stream walk
// and detects duplicates.
package registry

// Entry is one registered logged stream: the binding of a msg_id to a
// declared format and multi instance index. Offset records where in the raw
// buffer the registration message was read.
type Entry struct {
	MsgID   uint16
	MultiID uint8
	Format  string
	Name    string
	Offset  int64
}

// Instances maintains msg_id to stream bindings and an ordered list for
// deterministic extraction. Registration is first-wins: a msg_id or output
// name seen again is counted as a duplicate and otherwise ignored, matching
// append-only re-registration after a producer reconnect.
type Instances struct {
	byID       map[uint16]Entry
	byName     map[string]uint16
	order      []uint16
	duplicates int
}

// NewInstances creates an empty registry.
func NewInstances() *Instances {
	return &Instances{
		byID:   make(map[uint16]Entry),
		byName: make(map[string]uint16),
	}
}

// Register records a stream binding.
//
// Returns false when the msg_id or the synthesized output name is already
// taken; the first registration stays authoritative and the duplicate is
// only counted.
func (r *Instances) Register(e Entry) bool {
	if _, exists := r.byID[e.MsgID]; exists {
		r.duplicates++
		return false
	}
	if _, exists := r.byName[e.Name]; exists {
		r.duplicates++
		return false
	}

	r.byID[e.MsgID] = e
	r.byName[e.Name] = e.MsgID
	r.order = append(r.order, e.MsgID)

	return true
}

// Lookup returns the entry registered under the given msg_id.
func (r *Instances) Lookup(msgID uint16) (Entry, bool) {
	e, ok := r.byID[msgID]
	return e, ok
}

// All returns the registered entries in registration order.
func (r *Instances) All() []Entry {
	entries := make([]Entry, len(r.order))
	for i, id := range r.order {
		entries[i] = r.byID[id]
	}

	return entries
}

// Count returns the number of registered streams.
func (r *Instances) Count() int {
	return len(r.order)
}

// Duplicates returns the number of ignored duplicate registrations.
func (r *Instances) Duplicates() int {
	return r.duplicates
}
