// Package store keeps a manifest of every render: what was drawn, with which
// settings, and the encoding matrix behind it.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/attnviz/internal/posenc"
)

var ErrNotFound = errors.New("store: render not found")

const (
	manifestFile = "manifest.json"
	matrixFile   = "matrix.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Manifest describes one finished render.
type Manifest struct {
	ID        string        `json:"id"`
	Scene     string        `json:"scene"`
	Timestamp time.Time     `json:"timestamp"`
	Backend   string        `json:"backend"`
	Output    string        `json:"output"`
	Quality   string        `json:"quality"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	FPS       int           `json:"fps"`
	Frames    int           `json:"frames"`
	Steps     int           `json:"steps"`
	Duration  float64       `json:"duration"`
	Status    string        `json:"status"`
	Encoding  *EncodingInfo `json:"encoding,omitempty"`
}

// EncodingInfo records the positional-encoding parameters of a render.
type EncodingInfo struct {
	SeqLen int     `json:"seq_len"`
	DModel int     `json:"d_model"`
	Base   float64 `json:"base"`
}

// Save writes m, and matrix when it is not nil, under a new render ID.
func (s *Store) Save(m Manifest, matrix *posenc.Matrix) (string, error) {
	now := s.now()
	id := fmt.Sprintf("%s_%d", m.Scene, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	m.ID = id
	m.Timestamp = now
	if err := writeJSON(filepath.Join(dir, manifestFile), m); err != nil {
		return "", err
	}
	if matrix == nil {
		return id, nil
	}
	if err := writeMatrix(filepath.Join(dir, matrixFile), matrix); err != nil {
		return "", err
	}
	return id, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMatrix(path string, m *posenc.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"pos"}
	for d := 0; d < m.Cols(); d++ {
		header = append(header, fmt.Sprintf("d%d", d))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for r := 0; r < m.Rows(); r++ {
		row := []string{strconv.Itoa(r)}
		for _, v := range m.Row(r) {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every stored manifest, newest first. Unreadable entries are
// skipped.
func (s *Store) List() ([]Manifest, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Manifest{}, nil
		}
		return nil, err
	}

	runs := make([]Manifest, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *m)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", id, err)
	}
	return &m, nil
}

// LoadMatrix reads the encoding matrix saved with a render.
func (s *Store) LoadMatrix(id string) (*posenc.Matrix, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, matrixFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no matrix for %s", ErrNotFound, id)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("store: matrix for %s: %w", id, posenc.ErrInvalidShape)
	}

	values := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("store: matrix for %s row %d: %w", id, i, err)
			}
			row = append(row, v)
		}
		values = append(values, row)
	}
	return posenc.NewMatrix(values)
}
