package export

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/gravpot/internal/analysis"
	"github.com/san-kum/gravpot/internal/storage"
)

// Number encodes non-finite values as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type Document struct {
	Run     storage.RunMetadata `json:"run"`
	Samples int                 `json:"samples"`
	Columns map[string][]Number `json:"columns"`
}

func NewDocument(meta storage.RunMetadata, prof *analysis.Profile) Document {
	doc := Document{
		Run:     meta,
		Samples: prof.Len(),
		Columns: make(map[string][]Number),
	}
	for _, name := range prof.Columns() {
		col, _ := prof.Column(name)
		out := make([]Number, len(col))
		for i, v := range col {
			out[i] = Number(v)
		}
		doc.Columns[name] = out
	}
	return doc
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, prof *analysis.Profile) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(meta, prof))
}

func ExportJSON(path string, meta storage.RunMetadata, prof *analysis.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteJSON(file, meta, prof); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
