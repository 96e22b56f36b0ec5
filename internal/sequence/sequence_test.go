package sequence

import (
	"reflect"
	"testing"
)

func TestHashStable(t *testing.T) {
	if Hash("ABXQZT:3") != Hash("ABXQZT:3") {
		t.Fatalf("hash of identical key differs")
	}
	if Hash("ABXQZT:3") == Hash("ABXQZT:4") {
		t.Fatalf("adjacent keys collided; pick a better key scheme")
	}
}

func TestRNGStreamRepeats(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same-seed generators diverged at step %d", i)
		}
	}
}

func TestPermuteIsPermutation(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}
	for seed := uint32(0); seed < 50; seed++ {
		out := Permute(seed, items)
		if len(out) != len(items) {
			t.Fatalf("seed %d: length %d, want %d", seed, len(out), len(items))
		}
		seen := make(map[string]int)
		for _, v := range out {
			seen[v]++
		}
		for _, v := range items {
			if seen[v] != 1 {
				t.Fatalf("seed %d: %q appears %d times", seed, v, seen[v])
			}
		}
	}
}

func TestPermuteDeterministic(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}
	first := Permute(Hash(QuestionKey("ROOM42", 2)), items)
	second := Permute(Hash(QuestionKey("ROOM42", 2)), items)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("independent invocations differ: %v vs %v", first, second)
	}
}

func TestPermuteDoesNotMutateInput(t *testing.T) {
	items := []int{0, 1, 2, 3}
	Permute(9, items)
	if !reflect.DeepEqual(items, []int{0, 1, 2, 3}) {
		t.Fatalf("input mutated: %v", items)
	}
}

func TestOptionOrderSharedAcrossCallers(t *testing.T) {
	a := OptionOrder("SESS01", 4, 5)
	b := OptionOrder("SESS01", 4, 5)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("option order differs between callers: %v vs %v", a, b)
	}
	c := OptionOrder("SESS01", 5, 5)
	if reflect.DeepEqual(a, c) && reflect.DeepEqual(c, []int{0, 1, 2, 3, 4}) {
		t.Logf("adjacent question produced identity order; acceptable but unlikely")
	}
}

func TestWrongOptionOrder(t *testing.T) {
	// counts: o0=3, o1=1, o2=1, o3=5; correct is o0.
	got := WrongOptionOrder(0, []int{3, 1, 1, 5})
	want := []int{1, 2, 3} // ties (o1,o2) break on original index
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WrongOptionOrder = %v, want %v", got, want)
	}
}

func TestWrongOptionOrderPollModeIncludesAll(t *testing.T) {
	got := WrongOptionOrder(-1, []int{2, 2, 1})
	want := []int{2, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("WrongOptionOrder poll mode = %v, want %v", got, want)
	}
}
