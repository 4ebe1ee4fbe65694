package evaluation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeGold(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gold.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGoldStandard(t *testing.T) {
	path := writeGold(t, `{"quantum computing": [12, 7], "graph theory": [3]}`)

	gold, err := LoadGoldStandard(path)
	if err != nil {
		t.Fatalf("LoadGoldStandard: %v", err)
	}
	if !reflect.DeepEqual(gold["quantum computing"], []int64{12, 7}) {
		t.Errorf("quantum computing = %v, want [12 7]", gold["quantum computing"])
	}
	if !reflect.DeepEqual(gold.Queries(), []string{"graph theory", "quantum computing"}) {
		t.Errorf("Queries() = %v, want sorted", gold.Queries())
	}
}

func TestLoadGoldStandardErrors(t *testing.T) {
	if _, err := LoadGoldStandard(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadGoldStandard(writeGold(t, `not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestSplitTrainTest(t *testing.T) {
	gold := GoldStandard{
		"a": {1}, "b": {2}, "c": {3}, "d": {4}, "e": {5},
	}

	train, test, err := gold.SplitTrainTest(3, 2, 42)
	if err != nil {
		t.Fatalf("SplitTrainTest: %v", err)
	}
	if len(train) != 3 || len(test) != 2 {
		t.Fatalf("split sizes = %d/%d, want 3/2", len(train), len(test))
	}
	for q := range train {
		if _, dup := test[q]; dup {
			t.Errorf("query %q appears in both splits", q)
		}
	}

	// Same seed reproduces the same split.
	train2, test2, err := gold.SplitTrainTest(3, 2, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(train, train2) || !reflect.DeepEqual(test, test2) {
		t.Error("identical seed produced a different split")
	}
}

func TestSplitTrainTestOversized(t *testing.T) {
	gold := GoldStandard{"a": {1}, "b": {2}}
	if _, _, err := gold.SplitTrainTest(2, 1, 7); err == nil {
		t.Error("expected error when train+test exceeds query count")
	}
}
