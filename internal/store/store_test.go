package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/attnviz/internal/posenc"
)

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	m, err := posenc.GenerateDefault(4, 6)
	if err != nil {
		t.Fatal(err)
	}
	id, err := st.Save(Manifest{
		Scene:    "pe-heatmap",
		Backend:  "png",
		Frames:   120,
		Duration: 4,
		Encoding: &EncodingInfo{SeqLen: 4, DModel: 6, Base: posenc.DefaultBase},
	}, m)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Error("expected non-empty render id")
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "pe-heatmap" || meta.ID != id {
		t.Errorf("unexpected manifest %+v", meta)
	}
	if meta.Frames != 120 {
		t.Errorf("expected 120 frames, got %d", meta.Frames)
	}
	if meta.Encoding == nil || meta.Encoding.DModel != 6 {
		t.Errorf("expected encoding info, got %+v", meta.Encoding)
	}

	loaded, err := st.LoadMatrix(id)
	if err != nil {
		t.Fatalf("load matrix failed: %v", err)
	}
	if loaded.Rows() != 4 || loaded.Cols() != 6 {
		t.Fatalf("expected 4x6 matrix, got %dx%d", loaded.Rows(), loaded.Cols())
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 6; c++ {
			if loaded.At(r, c) != m.At(r, c) {
				t.Errorf("cell (%d,%d): %v != %v", r, c, loaded.At(r, c), m.At(r, c))
			}
		}
	}
}

func TestStoreWithoutMatrix(t *testing.T) {
	st := New(t.TempDir())
	id, err := st.Save(Manifest{Scene: "analogy"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadMatrix(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, scene := range []string{"attention", "tokenization", "position-add"} {
		if _, err := st.Save(Manifest{Scene: scene}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(st.Dir(), "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(st.Dir(), "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].Scene != "position-add" || runs[2].Scene != "attention" {
		t.Errorf("expected newest first, got %s..%s", runs[0].Scene, runs[2].Scene)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	m, _ := posenc.GenerateDefault(1, 4)
	id, err := st.Save(Manifest{Scene: "pe-heatmap"}, m)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, id); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Manifest.ID != id {
		t.Errorf("expected id %s, got %s", id, data.Manifest.ID)
	}
	want := []float64{0, 1, 0, 1}
	for i, v := range want {
		if math.Abs(data.Matrix[0][i]-v) > 1e-12 {
			t.Errorf("matrix[0][%d] = %v, want %v", i, data.Matrix[0][i], v)
		}
	}
}

func TestExportJSONWithoutMatrix(t *testing.T) {
	st := New(t.TempDir())
	id, err := st.Save(Manifest{Scene: "analogy"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, id); err != nil {
		t.Fatalf("expected a manifest-only export, got %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Matrix != nil {
		t.Errorf("expected no matrix, got %v", data.Matrix)
	}
}

func TestExportJSONCorruptMatrix(t *testing.T) {
	st := New(t.TempDir())
	m, _ := posenc.GenerateDefault(2, 2)
	id, err := st.Save(Manifest{Scene: "pe-heatmap"}, m)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(st.Dir(), id, matrixFile)
	if err := os.WriteFile(path, []byte("pos,d0\n0,oops\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = st.ExportJSON(&buf, id)
	if err == nil {
		t.Fatal("expected an error for a corrupt matrix")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("corrupt matrix reported as missing: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %q", buf.String())
	}
}

func TestExportMatrix(t *testing.T) {
	m, _ := posenc.GenerateDefault(2, 2)
	var buf bytes.Buffer
	if err := ExportMatrix(&buf, m); err != nil {
		t.Fatal(err)
	}
	var rows [][]float64
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || len(rows[1]) != 2 {
		t.Fatalf("expected 2x2 rows, got %v", rows)
	}
	if math.Abs(rows[1][0]-math.Sin(1)) > 1e-12 {
		t.Errorf("rows[1][0] = %v, want sin(1)", rows[1][0])
	}
}
