package reconcile

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func allExist(int) (bool, error) { return true, nil }

func onlyProducts(ids ...int) Resolver {
	known := make(map[int]bool)
	for _, id := range ids {
		known[id] = true
	}
	return func(productID int) (bool, error) {
		return known[productID], nil
	}
}

func intPtr(v int) *int { return &v }

func TestApplyAddIncrementsExistingLine(t *testing.T) {
	current := map[int]int{1: 3}
	patch := Patch{Add: []Entry{{ProductID: 1, Quantity: 2}}}

	got, err := Apply(current, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got[1] != 5 {
		t.Errorf("expected quantity 5 after add, got %d", got[1])
	}
}

func TestApplyAddCreatesMissingLine(t *testing.T) {
	got, err := Apply(map[int]int{}, Patch{Add: []Entry{{ProductID: 7, Quantity: 4}}}, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got[7] != 4 {
		t.Errorf("expected new line with quantity 4, got %d", got[7])
	}
}

func TestApplyAddUnknownProduct(t *testing.T) {
	_, err := Apply(map[int]int{}, Patch{Add: []Entry{{ProductID: 99, Quantity: 1}}}, onlyProducts(1))
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestApplyUpdateSetsAbsoluteQuantity(t *testing.T) {
	current := map[int]int{1: 3}
	patch := Patch{Update: []UpdateEntry{{ProductID: 1, Quantity: intPtr(10)}}}

	got, err := Apply(current, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got[1] != 10 {
		t.Errorf("expected absolute quantity 10, got %d", got[1])
	}
}

func TestApplyUpdateUpsertsMissingLine(t *testing.T) {
	got, err := Apply(map[int]int{}, Patch{Update: []UpdateEntry{{ProductID: 2, Quantity: intPtr(6)}}}, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got[2] != 6 {
		t.Errorf("expected upserted quantity 6, got %d", got[2])
	}
}

func TestApplyUpdateRejectsNegativeQuantity(t *testing.T) {
	patch := Patch{Update: []UpdateEntry{{ProductID: 1, Quantity: intPtr(-1)}}}
	_, err := Apply(map[int]int{1: 3}, patch, allExist)
	if !IsInvalidQuantity(err) {
		t.Fatalf("expected invalid-quantity error, got %v", err)
	}
}

func TestApplyUpdateRejectsMissingQuantity(t *testing.T) {
	patch := Patch{Update: []UpdateEntry{{ProductID: 1}}}
	_, err := Apply(map[int]int{1: 3}, patch, allExist)
	if !IsInvalidQuantity(err) {
		t.Fatalf("expected invalid-quantity error, got %v", err)
	}
}

// Quantity validation happens before existence resolution, so a bad
// quantity on an unknown product reports invalid quantity, not not-found.
func TestApplyUpdateValidatesQuantityBeforeResolution(t *testing.T) {
	patch := Patch{Update: []UpdateEntry{{ProductID: 99, Quantity: intPtr(-2)}}}
	_, err := Apply(map[int]int{}, patch, onlyProducts())
	if !IsInvalidQuantity(err) {
		t.Fatalf("expected invalid-quantity error, got %v", err)
	}
}

func TestApplyUpdateZeroKeepsLineAtZero(t *testing.T) {
	got, err := Apply(map[int]int{1: 3}, Patch{Update: []UpdateEntry{{ProductID: 1, Quantity: intPtr(0)}}}, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if qty, ok := got[1]; !ok || qty != 0 {
		t.Errorf("expected line kept at quantity 0, got %v (present=%v)", qty, ok)
	}
}

func TestApplyRemoveDeletesLine(t *testing.T) {
	got, err := Apply(map[int]int{1: 3, 2: 1}, Patch{Remove: []int{1}}, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if _, ok := got[1]; ok {
		t.Error("expected product 1 removed")
	}
	if got[2] != 1 {
		t.Errorf("expected product 2 untouched, got %d", got[2])
	}
}

func TestApplyRemoveAbsentProductIsNoOp(t *testing.T) {
	got, err := Apply(map[int]int{1: 3}, Patch{Remove: []int{42}}, allExist)
	if err != nil {
		t.Fatalf("expected silent no-op, got error: %v", err)
	}
	if got[1] != 3 {
		t.Errorf("expected cart untouched, got %v", got)
	}
}

// add then remove of the same product in one patch ends with the line gone:
// the phases run in a fixed order, the lists are not deduplicated.
func TestApplyAddThenRemoveSameProduct(t *testing.T) {
	patch := Patch{
		Add:    []Entry{{ProductID: 5, Quantity: 2}},
		Remove: []int{5},
	}
	got, err := Apply(map[int]int{}, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if _, ok := got[5]; ok {
		t.Error("expected product 5 removed after add+remove in the same patch")
	}
}

// The add phase carries no sign check: a negative add decrements, and can
// drive a line below zero where the update phase would have rejected it.
// Kept as-is to match the reference behavior; this test pins the asymmetry.
func TestApplyAddNegativeQuantityIsNotValidated(t *testing.T) {
	got, err := Apply(map[int]int{1: 3}, Patch{Add: []Entry{{ProductID: 1, Quantity: -5}}}, allExist)
	if err != nil {
		t.Fatalf("add carries no quantity validation, got error: %v", err)
	}
	if got[1] != -2 {
		t.Errorf("negative add must decrement to -2, got %d", got[1])
	}
}

// Applying the same patch twice is idempotent for update and remove but not
// for add, which increments on every application.
func TestApplyAddIsNotIdempotent(t *testing.T) {
	patch := Patch{Add: []Entry{{ProductID: 1, Quantity: 2}}}

	once, err := Apply(map[int]int{1: 3}, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	twice, err := Apply(once, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if once[1] != 5 || twice[1] != 7 {
		t.Errorf("add must increment on every application: got %d then %d, want 5 then 7", once[1], twice[1])
	}
}

func TestApplyUpdateAndRemoveAreIdempotent(t *testing.T) {
	patch := Patch{
		Update: []UpdateEntry{{ProductID: 1, Quantity: intPtr(5)}},
		Remove: []int{2},
	}

	once, err := Apply(map[int]int{1: 3, 2: 1}, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	twice, err := Apply(once, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("update/remove-only patch must be idempotent: %v then %v", once, twice)
	}
}

func TestApplyPhaseOrderAddThenUpdate(t *testing.T) {
	patch := Patch{
		Add:    []Entry{{ProductID: 1, Quantity: 10}},
		Update: []UpdateEntry{{ProductID: 1, Quantity: intPtr(2)}},
	}
	got, err := Apply(map[int]int{1: 1}, patch, allExist)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got[1] != 2 {
		t.Errorf("update runs after add and must win, got %d", got[1])
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	current := map[int]int{1: 3}
	patch := Patch{
		Add:    []Entry{{ProductID: 2, Quantity: 1}},
		Remove: []int{1},
	}
	if _, err := Apply(current, patch, allExist); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !reflect.DeepEqual(current, map[int]int{1: 3}) {
		t.Errorf("input state mutated: %v", current)
	}
}

func TestApplyFailedPatchLeavesNothingToPersist(t *testing.T) {
	current := map[int]int{1: 3}
	patch := Patch{
		Add:    []Entry{{ProductID: 1, Quantity: 2}},
		Update: []UpdateEntry{{ProductID: 99, Quantity: intPtr(1)}},
	}
	got, err := Apply(current, patch, onlyProducts(1))
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result on failure, got %v", got)
	}
}

func TestApplyResolverErrorAborts(t *testing.T) {
	boom := errors.New("base injoignable")
	failing := func(int) (bool, error) { return false, boom }
	_, err := Apply(map[int]int{}, Patch{Add: []Entry{{ProductID: 1, Quantity: 1}}}, failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected resolver error to surface, got %v", err)
	}
	if IsNotFound(err) || IsInvalidQuantity(err) {
		t.Error("infrastructure error must not map to a domain error")
	}
}

func TestDiff(t *testing.T) {
	before := map[int]int{1: 3, 2: 1, 3: 7}
	after := map[int]int{1: 3, 2: 5, 4: 2}

	changes := Diff(before, after)

	wantUpserts := map[int]int{2: 5, 4: 2}
	if !reflect.DeepEqual(changes.Upserts, wantUpserts) {
		t.Errorf("upserts = %v, want %v", changes.Upserts, wantUpserts)
	}

	sort.Ints(changes.Deletes)
	if !reflect.DeepEqual(changes.Deletes, []int{3}) {
		t.Errorf("deletes = %v, want [3]", changes.Deletes)
	}
}

func TestDiffNoChanges(t *testing.T) {
	state := map[int]int{1: 1}
	changes := Diff(state, map[int]int{1: 1})
	if len(changes.Upserts) != 0 || len(changes.Deletes) != 0 {
		t.Errorf("expected empty diff, got %+v", changes)
	}
}
