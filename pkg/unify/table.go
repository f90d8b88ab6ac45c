// Package unify merges sample and event records into one time-ordered table.
package unify

import (
	"database/sql"
)

// ColumnType is the storage type of a table column.
type ColumnType int

const (
	TypeInt ColumnType = iota
	TypeFloat
	TypeText
)

// Column describes one output column.
type Column struct {
	Name string
	Type ColumnType
}

// Columns is the fixed output schema, in order. The first block is shared by
// samples and events, then the event columns, then the sample channels.
var Columns = []Column{
	{"trial", TypeInt},
	{"timestamp", TypeFloat},
	{"trial_time", TypeFloat},
	{"eye", TypeText},
	{"start_time", TypeFloat},
	{"end_time", TypeFloat},
	{"duration", TypeFloat},
	{"start_x", TypeFloat},
	{"start_y", TypeFloat},
	{"end_x", TypeFloat},
	{"end_y", TypeFloat},
	{"avg_x", TypeFloat},
	{"avg_y", TypeFloat},
	{"avg_pupil_size", TypeFloat},
	{"amplitude", TypeFloat},
	{"peak_velocity", TypeFloat},
	{"avg_velocity", TypeFloat},
	{"event_type", TypeText},
	{"message", TypeText},
	{"x", TypeFloat},
	{"y", TypeFloat},
	{"pupil_size", TypeFloat},
	{"x_velocity", TypeFloat},
	{"y_velocity", TypeFloat},
}

// Header returns the column names in order.
func Header() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Row is one line of the unified table. Key columns are always set; every
// other column may be empty.
type Row struct {
	Trial     int
	Timestamp float64
	TrialTime float64

	Eye          sql.Null[string]
	StartTime    sql.Null[float64]
	EndTime      sql.Null[float64]
	Duration     sql.Null[float64]
	StartX       sql.Null[float64]
	StartY       sql.Null[float64]
	EndX         sql.Null[float64]
	EndY         sql.Null[float64]
	AvgX         sql.Null[float64]
	AvgY         sql.Null[float64]
	AvgPupilSize sql.Null[float64]
	Amplitude    sql.Null[float64]
	PeakVelocity sql.Null[float64]
	AvgVelocity  sql.Null[float64]
	EventType    sql.Null[string]
	Message      sql.Null[string]

	X         sql.Null[float64]
	Y         sql.Null[float64]
	PupilSize sql.Null[float64]
	XVelocity sql.Null[float64]
	YVelocity sql.Null[float64]
}

// Values returns the row's cells in Columns order. Empty cells are nil;
// others are int, float64 or string.
func (r *Row) Values() []any {
	return []any{
		r.Trial,
		r.Timestamp,
		r.TrialTime,
		value(r.Eye),
		value(r.StartTime),
		value(r.EndTime),
		value(r.Duration),
		value(r.StartX),
		value(r.StartY),
		value(r.EndX),
		value(r.EndY),
		value(r.AvgX),
		value(r.AvgY),
		value(r.AvgPupilSize),
		value(r.Amplitude),
		value(r.PeakVelocity),
		value(r.AvgVelocity),
		value(r.EventType),
		value(r.Message),
		value(r.X),
		value(r.Y),
		value(r.PupilSize),
		value(r.XVelocity),
		value(r.YVelocity),
	}
}

func value[T any](n sql.Null[T]) any {
	if !n.Valid {
		return nil
	}
	return n.V
}

func some[T any](v T) sql.Null[T] {
	return sql.Null[T]{V: v, Valid: true}
}

// text is like some, but an empty string stays empty.
func text(s string) sql.Null[string] {
	return sql.Null[string]{V: s, Valid: s != ""}
}

// Table is the unified, sorted result.
type Table struct {
	Rows []Row

	// Merged counts rows where a sample and an event shared a key.
	Merged int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
