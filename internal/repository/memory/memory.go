// Package memory keeps the inventory and rentals in process. It backs the
// default storage mode and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type Store struct {
	*ToolRepository
	*RentalRepository
}

// NewStore returns a store whose inventory is seeded with tools
func NewStore(tools []domain.Tool) *Store {
	return &Store{
		ToolRepository:   NewToolRepository(tools...),
		RentalRepository: NewRentalRepository(),
	}
}

type ToolRepository struct {
	mu    sync.Mutex
	tools map[string]domain.Tool
}

var _ repository.ToolRepository = (*ToolRepository)(nil)

func NewToolRepository(tools ...domain.Tool) *ToolRepository {
	r := &ToolRepository{tools: make(map[string]domain.Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Code] = t
	}
	return r
}

func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[tool.Code]; !ok {
		r.tools[tool.Code] = *tool
	}
	return nil
}

func (r *ToolRepository) GetByCode(ctx context.Context, code string) (*domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *ToolRepository) List(ctx context.Context) ([]domain.Tool, error) {
	r.mu.Lock()
	tools := make([]domain.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	r.mu.Unlock()

	sort.Slice(tools, func(i, j int) bool { return tools[i].Code < tools[j].Code })
	return tools, nil
}

func (r *ToolRepository) TryReserve(ctx context.Context, code string) (bool, error) {
	return r.setAvailable(code, true, false), nil
}

func (r *ToolRepository) Release(ctx context.Context, code string) (bool, error) {
	return r.setAvailable(code, false, true), nil
}

func (r *ToolRepository) setAvailable(code string, from, to bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[code]
	if !ok || t.Available != from {
		return false
	}
	t.Available = to
	r.tools[code] = t
	return true
}

type RentalRepository struct {
	mu      sync.Mutex
	rentals map[string]domain.Rental
}

var _ repository.RentalRepository = (*RentalRepository)(nil)

func NewRentalRepository() *RentalRepository {
	return &RentalRepository{rentals: make(map[string]domain.Rental)}
}

func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rentals[rental.Agreement.ID] = copyRental(*rental)
	return nil
}

func (r *RentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rt = copyRental(rt)
	return &rt, nil
}

func (r *RentalRepository) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.rentals[id]
	if !ok || rt.Status == domain.RentalStatusReturned {
		return false, nil
	}
	rt.Status = domain.RentalStatusReturned
	rt.ReturnedOn = &at
	rt.UpdatedOn = at
	r.rentals[id] = rt
	return true, nil
}

func (r *RentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked []domain.Rental
	for id, rt := range r.rentals {
		if rt.Status != domain.RentalStatusOut || !rt.Agreement.DueDate.Before(asOf) {
			continue
		}
		rt.Status = domain.RentalStatusOverdue
		rt.UpdatedOn = asOf
		r.rentals[id] = rt
		marked = append(marked, copyRental(rt))
	}
	sort.Slice(marked, func(i, j int) bool {
		return marked[i].Agreement.DueDate.Before(marked[j].Agreement.DueDate)
	})
	return marked, nil
}

func copyRental(rt domain.Rental) domain.Rental {
	if rt.ReturnedOn != nil {
		at := *rt.ReturnedOn
		rt.ReturnedOn = &at
	}
	return rt
}
