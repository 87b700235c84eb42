package store

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/san-kum/attnviz/internal/posenc"
)

type ExportData struct {
	Manifest Manifest    `json:"manifest"`
	Matrix   [][]float64 `json:"matrix,omitempty"`
}

// ExportJSON writes a stored render, manifest and matrix, as one document.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	m, err := s.Load(id)
	if err != nil {
		return err
	}
	data := ExportData{Manifest: *m}
	mat, err := s.LoadMatrix(id)
	switch {
	case err == nil:
		data.Matrix = mat.Values()
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return encode(w, data)
}

// ExportMatrix writes a matrix as json rows.
func ExportMatrix(w io.Writer, m *posenc.Matrix) error {
	return encode(w, m.Values())
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
