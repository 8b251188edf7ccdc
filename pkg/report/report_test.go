package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReportSorted(t *testing.T) {
	r := New(
		Record{Category: Mapped, Transition: "B", ISTD: "IS2"},
		Record{Category: MissingInMap, Transition: "Z"},
		Record{Category: Mapped, Transition: "A", ISTD: "IS2"},
		Record{Category: Mapped, Transition: "C", ISTD: "IS1"},
	)

	want := []Record{
		{Category: MissingInMap, Transition: "Z"},
		{Category: Mapped, Transition: "C", ISTD: "IS1"},
		{Category: Mapped, Transition: "A", ISTD: "IS2"},
		{Category: Mapped, Transition: "B", ISTD: "IS2"},
	}
	if diff := cmp.Diff(want, r.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
	if r.Records()[0].Transition != "B" {
		t.Error("Records() should keep insertion order")
	}
}

func TestReportAmend(t *testing.T) {
	base := New(
		Record{Category: Mapped, Transition: "A", ISTD: "IS1"},
		Record{Category: Mapped, Transition: "B", ISTD: "IS1"},
		Record{Category: ISTDNotInAnnotation, Transition: "A", ISTD: "IS1"},
	)

	amended := base.Amend(
		Record{Category: MissingISTDInData, Transition: "A", ISTD: "IS1"},
		Record{Category: DuplicateTransitionInData, Transition: "C", ISTD: "IS3"},
	)

	if base.Count(Mapped) != 2 {
		t.Errorf("Amend() modified the receiver: %v", base.Records())
	}
	if got := amended.Count(Mapped); got != 1 {
		t.Errorf("Count(Mapped) = %d, want 1", got)
	}
	if got := amended.Count(MissingISTDInData); got != 1 {
		t.Errorf("Count(MissingISTDInData) = %d, want 1", got)
	}
	if got := amended.Count(ISTDNotInAnnotation); got != 1 {
		t.Errorf("cross-check record should survive Amend, got %d", got)
	}
	if amended.Len() != 4 {
		t.Errorf("Len() = %d, want 4", amended.Len())
	}
}

func TestReportQueries(t *testing.T) {
	var empty Report
	if empty.Len() != 0 || !empty.Clean() || empty.Has(Mapped) {
		t.Error("zero Report should be empty and clean")
	}

	r := New(
		Record{Category: Mapped, Transition: "A", ISTD: "IS1"},
		Record{Category: BlankInMap, Transition: "D"},
		Record{Category: BlankInMap, Transition: "C"},
	)
	if r.Clean() {
		t.Error("Clean() = true with blank records")
	}
	want := []Record{
		{Category: BlankInMap, Transition: "C"},
		{Category: BlankInMap, Transition: "D"},
	}
	if diff := cmp.Diff(want, r.ByCategory(BlankInMap)); diff != "" {
		t.Errorf("ByCategory() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, r.Issues()); diff != "" {
		t.Errorf("Issues() mismatch (-want +got):\n%s", diff)
	}
}

func TestReportGroups(t *testing.T) {
	r := New(
		Record{Category: Mapped, Transition: "B", ISTD: "IS1"},
		Record{Category: Mapped, Transition: "A", ISTD: "IS1"},
		Record{Category: MissingInMap, Transition: "X"},
		Record{Category: MissingISTDInData, Transition: "C", ISTD: "IS9"},
	)

	want := []Group{
		{Category: Mapped, Key: "IS1", Transitions: []string{"A", "B"}},
		{Category: MissingInMap, Key: "[missing-in-map]", Transitions: []string{"X"}},
		{Category: MissingISTDInData, Key: "IS9", Transitions: []string{"C"}},
	}
	if diff := cmp.Diff(want, r.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}

	idx := r.Index()
	if len(idx["IS1"]) != 2 || len(idx[Sentinel(MissingInMap)]) != 1 {
		t.Errorf("Index() = %v", idx)
	}
}

func TestCategoryString(t *testing.T) {
	if got := DuplicateISTDInData.String(); got != "duplicate-istd-in-data" {
		t.Errorf("String() = %q", got)
	}
	if got := Category(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
	if ISTDNotInAnnotation.IsOutcome() || DuplicateColumnInData.IsOutcome() || !Mapped.IsOutcome() {
		t.Error("IsOutcome() misclassifies categories")
	}
	if got := DuplicateColumnInData.String(); got != "duplicate-column-in-data" {
		t.Errorf("String() = %q", got)
	}
}
