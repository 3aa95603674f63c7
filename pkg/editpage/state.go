package editpage

import (
	"maps"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
)

// Status is the lifecycle phase of an edit page.
type Status int

const (
	// StatusLoading means a load was started and no record is ready yet, or
	// the last load of a new record failed.
	StatusLoading Status = iota
	// StatusReady means a record is loaded and can be edited.
	StatusReady
	// StatusSaving means a save is in flight.
	StatusSaving
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusSaving:
		return "saving"
	default:
		return "loading"
	}
}

// State is an immutable snapshot of an edit page. Record is shared between
// snapshots and must be treated as read-only; reducers copy it on write.
type State struct {
	Status         Status
	Ref            recordpath.Ref
	Generation     uint64
	Record         map[string]any
	Model          *datamodel.DataModel
	Info           *datamodel.RecordInfo
	PendingChanges bool
	Err            error
}

// Loaded reports whether a data model and record info are present.
func (s State) Loaded() bool {
	return s.Model != nil && s.Info != nil
}

// Value returns the in-memory value stored for a field.
func (s State) Value(name string) (any, bool) {
	value, ok := s.Record[name]
	return value, ok
}

// Event drives a State transition through Reduce.
type Event interface {
	isEvent()
}

// LoadStarted begins loading ref. Switching to another record discards the
// previous record's data.
type LoadStarted struct {
	Ref        recordpath.Ref
	Generation uint64
}

// Loaded delivers the result of the load identified by Generation.
type Loaded struct {
	Generation uint64
	Record     map[string]any
	Model      datamodel.DataModel
	Info       datamodel.RecordInfo
}

// LoadFailed reports a failed load.
type LoadFailed struct {
	Generation uint64
	Err        error
}

// FieldChanged stores a new in-memory value. UIChange marks updates made by
// a widget for its own bookkeeping, which do not count as pending edits.
type FieldChanged struct {
	Name     string
	Value    any
	UIChange bool
}

// SaveStarted marks a save as in flight.
type SaveStarted struct{}

// Saved reports a successful save.
type Saved struct{}

// SaveFailed reports a failed save.
type SaveFailed struct {
	Err error
}

func (LoadStarted) isEvent()  {}
func (Loaded) isEvent()       {}
func (LoadFailed) isEvent()   {}
func (FieldChanged) isEvent() {}
func (SaveStarted) isEvent()  {}
func (Saved) isEvent()        {}
func (SaveFailed) isEvent()   {}

// Reduce applies ev to s and returns the resulting state. Results of stale
// loads are ignored.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case LoadStarted:
		next := s
		if !s.Ref.SameRecord(e.Ref) {
			next = State{}
		}
		next.Status = StatusLoading
		next.Ref = e.Ref
		next.Generation = e.Generation
		next.Err = nil
		return next

	case Loaded:
		if e.Generation != s.Generation {
			return s
		}
		model := e.Model
		info := e.Info
		record := e.Record
		if record == nil {
			record = map[string]any{}
		}
		return State{
			Status:     StatusReady,
			Ref:        s.Ref,
			Generation: s.Generation,
			Record:     record,
			Model:      &model,
			Info:       &info,
		}

	case LoadFailed:
		if e.Generation != s.Generation {
			return s
		}
		next := s
		next.Err = e.Err
		if next.Loaded() {
			next.Status = StatusReady
		} else {
			next.Status = StatusLoading
		}
		return next

	case FieldChanged:
		if !s.Loaded() || !s.Model.HasField(e.Name) {
			return s
		}
		value := e.Value
		if value == nil {
			value = ""
		}
		next := s
		next.Record = maps.Clone(s.Record)
		if next.Record == nil {
			next.Record = map[string]any{}
		}
		next.Record[e.Name] = value
		if !e.UIChange {
			next.PendingChanges = true
		}
		return next

	case SaveStarted:
		if !s.Loaded() {
			return s
		}
		next := s
		next.Status = StatusSaving
		next.Err = nil
		return next

	case Saved:
		if s.Status != StatusSaving {
			return s
		}
		next := s
		next.Status = StatusReady
		next.PendingChanges = false
		return next

	case SaveFailed:
		if s.Status != StatusSaving {
			return s
		}
		next := s
		next.Status = StatusReady
		next.Err = e.Err
		return next
	}
	return s
}
