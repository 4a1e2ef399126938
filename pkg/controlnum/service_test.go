package controlnum

import (
	"context"
	"strconv"
	"testing"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

func TestAllocate_FormatsNineDigits(t *testing.T) {
	svc := NewService(NewRepository(newTestDB(t), 0, 0))

	got, err := svc.Allocate(context.Background(), "t1", models.ControlISA, "p1", models.Transaction210)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != "000000001" {
		t.Fatalf("expected 000000001, got %q", got)
	}
}

func TestFormat_PrefixSuffix(t *testing.T) {
	c := &Counter{CurrentNumber: 42, Prefix: "TP", Suffix: "X"}
	if got := Format(c); got != "TP000000042X" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestAllocateTriple_ThreeIndependentSequences(t *testing.T) {
	repo := NewRepository(newTestDB(t), 0, 0)
	svc := NewService(repo)
	ctx := context.Background()

	triple, err := svc.AllocateTriple(ctx, "t1", "p1", models.Transaction204)
	if err != nil {
		t.Fatalf("allocate triple: %v", err)
	}

	for _, formatted := range []string{triple.ISA, triple.GS, triple.ST} {
		if len(formatted) != 9 {
			t.Fatalf("expected 9-digit number, got %q", formatted)
		}
		n, err := strconv.Atoi(formatted)
		if err != nil {
			t.Fatalf("not numeric: %q", formatted)
		}
		if n != 1 {
			t.Fatalf("first triple allocation should be 1 per level, got %d", n)
		}
	}

	second, err := svc.AllocateTriple(ctx, "t1", "p1", models.Transaction204)
	if err != nil {
		t.Fatalf("second triple: %v", err)
	}
	if second.ISA != "000000002" || second.GS != "000000002" || second.ST != "000000002" {
		t.Fatalf("each level should advance independently: %+v", second)
	}
}
