package controlnum

import (
	"context"
	"fmt"
	"sync"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Allocate issues the next formatted control number for the key.
func (s *Service) Allocate(ctx context.Context, tenantID string, controlType models.ControlType, partnerID string, transactionType models.TransactionType) (string, error) {
	counter, err := s.repo.Next(ctx, Key{
		TenantID:        tenantID,
		ControlType:     controlType,
		PartnerID:       partnerID,
		TransactionType: transactionType,
	})
	if err != nil {
		return "", err
	}
	return Format(counter), nil
}

// AllocateTriple issues ISA, GS and ST numbers for one outbound
// transaction. The three sequences are independent keys, so the
// allocations run concurrently. A failed level can leave the other
// counters advanced; the gap is harmless to monotonicity and is not
// rolled back.
func (s *Service) AllocateTriple(ctx context.Context, tenantID, partnerID string, transactionType models.TransactionType) (models.EnvelopeTriple, error) {
	controlTypes := []models.ControlType{models.ControlISA, models.ControlGS, models.ControlST}
	results := make([]string, len(controlTypes))
	errs := make([]error, len(controlTypes))

	var wg sync.WaitGroup
	for i, ct := range controlTypes {
		wg.Add(1)
		go func(i int, ct models.ControlType) {
			defer wg.Done()
			results[i], errs[i] = s.Allocate(ctx, tenantID, ct, partnerID, transactionType)
		}(i, ct)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return models.EnvelopeTriple{}, fmt.Errorf("allocating %s control number: %w", controlTypes[i], err)
		}
	}

	return models.EnvelopeTriple{ISA: results[0], GS: results[1], ST: results[2]}, nil
}

// Format renders a counter value as prefix + zero-padded 9 digits + suffix.
func Format(c *Counter) string {
	return fmt.Sprintf("%s%09d%s", c.Prefix, c.CurrentNumber, c.Suffix)
}
