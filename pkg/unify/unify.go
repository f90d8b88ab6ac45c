package unify

import (
	"cmp"
	"database/sql"
	"slices"

	"github.com/ccollicutt/ascflat/pkg/parser"
)

// key identifies a table cell row. Trial time is part of the key so that
// records with equal timestamps but different trial starts stay apart.
type key struct {
	trial     int
	timestamp float64
	trialTime float64
}

func keyOf(r *Row) key {
	return key{trial: r.Trial, timestamp: r.Timestamp, trialTime: r.TrialTime}
}

// Unify joins samples and events on (trial, timestamp, trial time) and sorts
// the result by (trial, timestamp).
//
// Each event is paired with the first not-yet-paired sample that has the
// same key; event values win wherever the event sets them. Unpaired records
// become rows of their own. Ties in the sort keep samples before events and
// otherwise input order.
func Unify(samples []parser.Sample, events []parser.Event) *Table {
	t := &Table{Rows: make([]Row, 0, len(samples)+len(events))}

	pending := make(map[key][]int)
	for i := range samples {
		row := FromSample(&samples[i])
		k := keyOf(&row)
		pending[k] = append(pending[k], len(t.Rows))
		t.Rows = append(t.Rows, row)
	}

	for _, ev := range events {
		row := FromEvent(ev)
		k := keyOf(&row)
		if idx := pending[k]; len(idx) > 0 {
			mergeInto(&t.Rows[idx[0]], &row)
			pending[k] = idx[1:]
			t.Merged++
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	slices.SortStableFunc(t.Rows, func(a, b Row) int {
		if c := cmp.Compare(a.Trial, b.Trial); c != 0 {
			return c
		}
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return t
}

// FromSample flattens a sample into a row.
func FromSample(s *parser.Sample) Row {
	return Row{
		Trial:     s.Trial,
		Timestamp: s.Timestamp,
		TrialTime: s.TrialTime,
		Message:   text(s.Message),
		X:         some(s.X),
		Y:         some(s.Y),
		PupilSize: some(s.Pupil),
		XVelocity: some(s.XVelocity),
		YVelocity: some(s.YVelocity),
	}
}

// FromEvent flattens any event kind into a row.
func FromEvent(ev parser.Event) Row {
	h := ev.Meta()
	row := Row{
		Trial:     h.Trial,
		Timestamp: h.Timestamp,
		TrialTime: h.TrialTime,
		EventType: some(string(ev.Kind())),
		Message:   text(h.Message),
	}

	switch e := ev.(type) {
	case parser.MessageEvent:
		row.Message = text(e.Text)
	case parser.Blink:
		row.Eye = some(e.Eye)
		row.StartTime = some(e.Start)
		row.EndTime = some(e.End)
		row.Duration = some(e.Duration)
	case parser.Saccade:
		row.Eye = some(e.Eye)
		row.StartTime = some(e.Start)
		row.EndTime = some(e.End)
		row.Duration = some(e.Duration)
		row.StartX = some(e.StartX)
		row.StartY = some(e.StartY)
		row.EndX = some(e.EndX)
		row.EndY = some(e.EndY)
		row.Amplitude = some(e.Amplitude)
		row.PeakVelocity = some(e.PeakVelocity)
		row.AvgVelocity = some(e.AvgVelocity)
	case parser.Fixation:
		row.Eye = some(e.Eye)
		row.StartTime = some(e.Start)
		row.EndTime = some(e.End)
		row.Duration = some(e.Duration)
		row.AvgX = some(e.AvgX)
		row.AvgY = some(e.AvgY)
		row.AvgPupilSize = some(e.AvgPupil)
	}
	return row
}

// mergeInto copies every set column of ev over dst.
func mergeInto(dst, ev *Row) {
	dst.Eye = coalesce(ev.Eye, dst.Eye)
	dst.StartTime = coalesce(ev.StartTime, dst.StartTime)
	dst.EndTime = coalesce(ev.EndTime, dst.EndTime)
	dst.Duration = coalesce(ev.Duration, dst.Duration)
	dst.StartX = coalesce(ev.StartX, dst.StartX)
	dst.StartY = coalesce(ev.StartY, dst.StartY)
	dst.EndX = coalesce(ev.EndX, dst.EndX)
	dst.EndY = coalesce(ev.EndY, dst.EndY)
	dst.AvgX = coalesce(ev.AvgX, dst.AvgX)
	dst.AvgY = coalesce(ev.AvgY, dst.AvgY)
	dst.AvgPupilSize = coalesce(ev.AvgPupilSize, dst.AvgPupilSize)
	dst.Amplitude = coalesce(ev.Amplitude, dst.Amplitude)
	dst.PeakVelocity = coalesce(ev.PeakVelocity, dst.PeakVelocity)
	dst.AvgVelocity = coalesce(ev.AvgVelocity, dst.AvgVelocity)
	dst.EventType = coalesce(ev.EventType, dst.EventType)
	dst.Message = coalesce(ev.Message, dst.Message)
	dst.X = coalesce(ev.X, dst.X)
	dst.Y = coalesce(ev.Y, dst.Y)
	dst.PupilSize = coalesce(ev.PupilSize, dst.PupilSize)
	dst.XVelocity = coalesce(ev.XVelocity, dst.XVelocity)
	dst.YVelocity = coalesce(ev.YVelocity, dst.YVelocity)
}

// coalesce returns the first set value.
func coalesce[T any](vals ...sql.Null[T]) sql.Null[T] {
	for _, v := range vals {
		if v.Valid {
			return v
		}
	}
	return sql.Null[T]{}
}
