package idalloc

import (
	"errors"
	"testing"
)

func TestScanMaxFirstIDIsOne(t *testing.T) {
	alloc := &ScanMaxAllocator{IDs: func(string) ([]int, error) { return nil, nil }}

	id, err := alloc.NextID(EntityProduct)
	if err != nil {
		t.Fatalf("NextID returned error: %v", err)
	}
	if id != 1 {
		t.Errorf("empty table must allocate 1, got %d", id)
	}
}

func TestScanMaxAllocatesMaxPlusOne(t *testing.T) {
	alloc := &ScanMaxAllocator{IDs: func(string) ([]int, error) { return []int{3, 1, 2}, nil }}

	id, err := alloc.NextID(EntityCart)
	if err != nil {
		t.Fatalf("NextID returned error: %v", err)
	}
	if id != 4 {
		t.Errorf("expected 4, got %d", id)
	}
}

// Gaps left by deletions below the max are never filled.
func TestScanMaxIgnoresGaps(t *testing.T) {
	alloc := &ScanMaxAllocator{IDs: func(string) ([]int, error) { return []int{1, 5, 7}, nil }}

	id, err := alloc.NextID(EntityUser)
	if err != nil {
		t.Fatalf("NextID returned error: %v", err)
	}
	if id != 8 {
		t.Errorf("gaps must not be filled, expected 8, got %d", id)
	}
}

func TestScanMaxPropagatesScanError(t *testing.T) {
	boom := errors.New("scan failed")
	alloc := &ScanMaxAllocator{IDs: func(string) ([]int, error) { return nil, boom }}

	if _, err := alloc.NextID(EntityProduct); !errors.Is(err, boom) {
		t.Fatalf("expected scan error to surface, got %v", err)
	}
}

// The LWT sequence must start above ids already in the table (seeded data),
// otherwise the first allocation would hand out an id that exists and the
// upsert-style INSERT would silently overwrite that row.
func TestCounterFirstAllocationStartsAboveExistingIDs(t *testing.T) {
	first, next := firstAllocation([]int{1, 2, 20, 7})
	if first != 21 {
		t.Errorf("first allocation over seeded ids must be 21, got %d", first)
	}
	if next != 22 {
		t.Errorf("stored sequence value must be 22, got %d", next)
	}
}

func TestCounterFirstAllocationEmptyTable(t *testing.T) {
	first, next := firstAllocation(nil)
	if first != 1 || next != 2 {
		t.Errorf("empty table must allocate 1 and store 2, got %d/%d", first, next)
	}
}

func TestNextWithoutInit(t *testing.T) {
	saved := Default
	Default = nil
	defer func() { Default = saved }()

	if _, err := Next(EntityProduct); err == nil {
		t.Error("expected an error when no allocator is configured")
	}
}
