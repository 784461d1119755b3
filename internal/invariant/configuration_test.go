package invariant

import (
	"errors"
	"testing"
)

func TestNewConfiguration_CopiesInput(t *testing.T) {
	in := map[string]uint64{"A": 1}
	cfg := NewConfiguration(in)
	in["A"] = 2
	in["B"] = 3

	if v, _ := cfg.Lookup("A"); v != 1 {
		t.Errorf("A = %d, want 1", v)
	}
	if _, ok := cfg.Lookup("B"); ok {
		t.Error("B should not be visible")
	}

	out := cfg.Values()
	out["A"] = 9
	if v, _ := cfg.Lookup("A"); v != 1 {
		t.Error("Values() should return a copy")
	}
}

func TestConfiguration_ValueMissing(t *testing.T) {
	cfg := NewConfiguration(map[string]uint64{"ZERO": 0})

	v, err := cfg.Value("ZERO")
	if err != nil || v != 0 {
		t.Errorf("Value(ZERO) = %d, %v", v, err)
	}

	_, err = cfg.Value("ABSENT")
	if !errors.Is(err, ErrMissingConstant) {
		t.Fatalf("Value(ABSENT) error = %v, want ErrMissingConstant", err)
	}
	if err.Error() != "missing constant ABSENT" {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestConfiguration_NamesSorted(t *testing.T) {
	cfg := NewConfiguration(map[string]uint64{"C": 1, "A": 2, "B": 3})
	names := cfg.Names()
	want := []string{"A", "B", "C"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	if cfg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cfg.Len())
	}
}

func TestConfiguration_Hash(t *testing.T) {
	a := NewConfiguration(map[string]uint64{"A": 1, "B": 2})
	b := NewConfiguration(map[string]uint64{"B": 2, "A": 1})
	if a.Hash() != b.Hash() {
		t.Error("hash should not depend on map insertion order")
	}

	c := NewConfiguration(map[string]uint64{"A": 1, "B": 3})
	if a.Hash() == c.Hash() {
		t.Error("different values should hash differently")
	}
	if a.Hash().IsZero() {
		t.Error("hash should not be zero")
	}
}

func TestParseRevision(t *testing.T) {
	tests := []struct {
		in      string
		want    Revision
		wantErr bool
	}{
		{"altair", Altair, false},
		{"ALTAIR", Altair, false},
		{" Phase0 ", Phase0, false},
		{"deneb", Deneb, false},
		{"sharding", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRevision(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRevision(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRevision(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRevisions_ForkOrder(t *testing.T) {
	revs := Revisions()
	if revs[0] != Phase0 || revs[1] != Altair {
		t.Errorf("Revisions() = %v, want phase0 then altair first", revs)
	}
	revs[0] = "mutated"
	if Revisions()[0] != Phase0 {
		t.Error("Revisions() should return a copy")
	}
}
