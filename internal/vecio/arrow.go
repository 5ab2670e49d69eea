package vecio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-softmax/internal/metrics"
)

// ColumnName is the float32 column holding the scores in Arrow fixtures.
const ColumnName = "scores"

var arrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColumnName, Type: arrow.PrimitiveTypes.Float32},
}, nil)

// WriteArrow stores v as an Arrow IPC file with one record batch.
func WriteArrow(path string, v []float32) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create arrow file: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	b := array.NewFloat32Builder(mem)
	defer b.Release()
	b.AppendValues(v, nil)
	col := b.NewFloat32Array()
	defer col.Release()

	rec := array.NewRecord(arrowSchema, []arrow.Array{col}, int64(len(v)))
	defer rec.Release()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(arrowSchema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("failed to open arrow writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish arrow file: %w", err)
	}
	return f.Close()
}

// LoadArrow reads every record batch of an Arrow IPC fixture and concatenates
// the scores column. Null entries are rejected.
func LoadArrow(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		metrics.RecordFixtureLoadError("open")
		return nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		metrics.RecordFixtureLoadError("arrow")
		return nil, fmt.Errorf("failed to read arrow file %s: %w", path, err)
	}
	defer r.Close()

	idx := r.Schema().FieldIndices(ColumnName)
	if len(idx) == 0 {
		metrics.RecordFixtureLoadError("schema")
		return nil, fmt.Errorf("%s: no %q column: %w", path, ColumnName, ErrFormat)
	}

	var out []float32
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read arrow record %d: %w", i, err)
		}
		col, ok := rec.Column(idx[0]).(*array.Float32)
		if !ok {
			return nil, fmt.Errorf("%s: column %q is %s, want float32: %w",
				path, ColumnName, rec.Column(idx[0]).DataType(), ErrFormat)
		}
		if col.NullN() > 0 {
			return nil, fmt.Errorf("%s: record %d has %d null scores: %w", path, i, col.NullN(), ErrFormat)
		}
		out = append(out, col.Float32Values()...)
	}
	if out == nil {
		out = []float32{}
	}
	return out, nil
}
