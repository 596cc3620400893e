package usecase

import (
	"fmt"
	"log/slog"

	contactdomain "contacthub-backend/internal/contact/domain"
	contactrepo "contacthub-backend/internal/contact/repository"
	"contacthub-backend/internal/duplicate/domain"
	"contacthub-backend/internal/duplicate/repository"
	statusrepo "contacthub-backend/internal/status/repository"
)

type duplicateUsecase struct {
	cacheRepo   repository.CacheRepository
	contactRepo contactrepo.ContactRepository
	statusRepo  statusrepo.StatusRepository
	logger      *slog.Logger
}

// NewDuplicateUsecase creates a new instance of duplicateUsecase
func NewDuplicateUsecase(
	cacheRepo repository.CacheRepository,
	contactRepo contactrepo.ContactRepository,
	statusRepo statusrepo.StatusRepository,
) DuplicateUsecase {
	return &duplicateUsecase{
		cacheRepo:   cacheRepo,
		contactRepo: contactRepo,
		statusRepo:  statusRepo,
		logger:      slog.Default().With("component", "DuplicateUsecase"),
	}
}

func (u *duplicateUsecase) GetDuplicates(minConfidence float64) ([]*domain.DuplicateMatch, error) {
	status, err := u.statusRepo.GetCacheStatus()
	if err != nil {
		return nil, fmt.Errorf("read cache status: %w", err)
	}
	if !status.Ready() {
		return nil, ErrCacheNotReady
	}

	entries, err := u.cacheRepo.List(minConfidence)
	if err != nil {
		return nil, fmt.Errorf("list duplicate cache: %w", err)
	}
	if len(entries) == 0 {
		return []*domain.DuplicateMatch{}, nil
	}

	contacts, err := u.contactRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	live := make(map[string]*contactdomain.Contact, len(contacts))
	for _, c := range contacts {
		live[c.ID] = c
	}

	matches := make([]*domain.DuplicateMatch, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		c1, ok1 := live[entry.Contact1ID]
		c2, ok2 := live[entry.Contact2ID]
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		matches = append(matches, &domain.DuplicateMatch{
			Contact1:   c1,
			Contact2:   c2,
			Confidence: entry.Confidence,
			Reasons:    entry.Reasons,
		})
	}

	if skipped > 0 {
		u.logger.Debug("skipped cache entries for removed contacts", "count", skipped)
	}
	return matches, nil
}

func (u *duplicateUsecase) GetCacheStatus() (*CacheStatus, error) {
	status, err := u.statusRepo.GetCacheStatus()
	if err != nil {
		return nil, fmt.Errorf("read cache status: %w", err)
	}

	result := &CacheStatus{Ready: status.Ready(), LastUpdated: status.LastUpdate}
	if result.Ready {
		count, err := u.cacheRepo.Count()
		if err != nil {
			return nil, fmt.Errorf("count duplicate cache: %w", err)
		}
		result.Pairs = count
	}
	return result, nil
}
