package signals

import (
	"github.com/ResistanceIsUseless/reflow/pkg/graph"
	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/runtime"
	"github.com/ResistanceIsUseless/reflow/pkg/text"
)

// Textual constrains the scalar types with a textual form.
type Textual interface {
	bool | int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | string
}

type textView[T Textual] struct {
	s    Signal[T]
	cell *graph.KeyedData[string]
}

// AsText views a scalar signal as text. The rendering is memoized in the
// data graph keyed by the source identity, so it is recomputed only when the
// value changes. Writes parse the text; rejected input surfaces as a
// text.ValidationError without touching the source.
func AsText[T Textual](ctx runtime.Context, s Signal[T]) Signal[string] {
	cell := graph.GetKeyedData[string](runtime.GetDataTraversal(ctx))
	return &textView[T]{s: s, cell: cell}
}

func (t *textView[T]) HasValue() bool  { return t.s.HasValue() }
func (t *textView[T]) ValueID() ids.ID { return t.s.ValueID() }

func (t *textView[T]) Read() string {
	if !t.s.HasValue() {
		return ""
	}
	t.cell.Refresh(t.s.ValueID())
	if !t.cell.Valid() {
		t.cell.Set(text.ToString(t.s.Read()))
	}
	return *t.cell.Value()
}

func (t *textView[T]) ReadyToWrite() bool { return t.s.ReadyToWrite() }

func (t *textView[T]) Write(s string) error {
	var v T
	if err := text.FromString(&v, s); err != nil {
		return err
	}
	return t.s.Write(v)
}
