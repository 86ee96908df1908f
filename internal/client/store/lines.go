package store

import "github.com/atinyakov/subwaymap/internal/models"

// Outcome messages of the lines store.
const (
	MsgFetchFailed     = "failed to load lines"
	MsgAddSucceeded    = "line added"
	MsgAddFailed       = "failed to add line"
	MsgDeleteSucceeded = "line deleted"
	MsgDeleteFailed    = "failed to delete line"
)

// LineStatus is the status record of the lines store.
type LineStatus struct {
	Status
	// AddSucceeded is set by a successful create and cleared only by
	// ClearLineStatus.
	AddSucceeded bool
}

// LinesState is the lines collection, newest first after a create and in
// server order after a fetch. No two items share an id.
type LinesState struct {
	Items  []models.Line
	Status LineStatus
}

// NewLinesState returns the empty collection.
func NewLinesState() LinesState {
	return LinesState{Items: []models.Line{}}
}

// Line returns the item with the given id.
func (s LinesState) Line(id int64) (models.Line, bool) {
	for _, l := range s.Items {
		if l.ID == id {
			return l, true
		}
	}
	return models.Line{}, false
}

// ReduceFetchLines applies a fetch-all outcome. Success replaces the whole
// collection with the server list.
func ReduceFetchLines(s LinesState, o Outcome[[]models.Line]) LinesState {
	switch o := o.(type) {
	case Submitted[[]models.Line]:
		s.Status.Loading = true
	case Resolved[[]models.Line]:
		s.Items = dedupe(o.Value)
		s.Status.Loading = false
	case Rejected[[]models.Line]:
		s.Status.Loading = false
		s.Status.Message = MsgFetchFailed
	}
	return s
}

// ReduceCreateLine applies a create outcome. Success prepends the line and
// leaves Loading untouched.
func ReduceCreateLine(s LinesState, o Outcome[models.Line]) LinesState {
	switch o := o.(type) {
	case Submitted[models.Line]:
		s.Status.Loading = true
	case Resolved[models.Line]:
		items := make([]models.Line, 0, len(s.Items)+1)
		items = append(items, o.Value)
		for _, l := range s.Items {
			if l.ID != o.Value.ID {
				items = append(items, l)
			}
		}
		s.Items = items
		s.Status.AddSucceeded = true
		s.Status.Message = MsgAddSucceeded
	case Rejected[models.Line]:
		s.Status.Loading = false
		s.Status.Message = MsgAddFailed
	}
	return s
}

// ReduceRemoveLine applies a remove outcome carrying the removed id. Removing
// an absent id is a no-op on the items. Success leaves Loading set.
func ReduceRemoveLine(s LinesState, o Outcome[int64]) LinesState {
	switch o := o.(type) {
	case Submitted[int64]:
		s.Status.Loading = true
	case Resolved[int64]:
		items := make([]models.Line, 0, len(s.Items))
		for _, l := range s.Items {
			if l.ID != o.Value {
				items = append(items, l)
			}
		}
		s.Items = items
		s.Status.Message = MsgDeleteSucceeded
	case Rejected[int64]:
		s.Status.Loading = false
		s.Status.Message = MsgDeleteFailed
	}
	return s
}

// ClearLineStatus resets the status record and keeps the items.
func ClearLineStatus(s LinesState) LinesState {
	s.Status = LineStatus{}
	return s
}

// ClearLines resets the whole lines store, typically after logout.
func ClearLines(LinesState) LinesState {
	return NewLinesState()
}

// dedupe copies lines keeping the first occurrence of every id.
func dedupe(lines []models.Line) []models.Line {
	out := make([]models.Line, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out
}
