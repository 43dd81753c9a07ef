package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mecalink/admin-gateway/internal/domain"
	"github.com/mecalink/admin-gateway/internal/mecalink"
	"github.com/mecalink/admin-gateway/internal/resource"
	"github.com/mecalink/admin-gateway/internal/session"
)

const loadErrorMessage = "Erreur lors du chargement des données"

// PageQuery drives a list view. A zero Page opens the screen again: a fresh
// list that fetches its first page. A zero Limit keeps the current size.
type PageQuery struct {
	Page  int
	Limit int
}

type listView[T resource.Entity] struct {
	mu   sync.Mutex
	list *resource.List[T]
}

func (v *listView[T]) current() *resource.List[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.list
}

func (v *listView[T]) open(ctx context.Context, fetch resource.Fetcher[T], q PageQuery) (resource.State[T], error) {
	v.mu.Lock()
	mount := q.Page == 0 || v.list == nil
	if mount {
		v.list = resource.NewList(fetch,
			resource.WithPageSize(q.Limit),
			resource.WithErrorMessage(func(err error) string {
				return mecalink.UserMessage(err, loadErrorMessage)
			}),
		)
	}
	l := v.list
	v.mu.Unlock()

	if mount {
		if err := l.Load(ctx); err != nil {
			return l.State(), err
		}
	}
	if q.Limit > 0 {
		if err := l.SetPageSize(ctx, q.Limit); err != nil {
			return l.State(), err
		}
	}
	if q.Page > 0 {
		if err := l.SetPage(ctx, q.Page); err != nil {
			return l.State(), err
		}
	}

	return l.State(), nil
}

// views are the list screens of one session.
type views struct {
	clients         listView[domain.User]
	garages         listView[domain.Garage]
	checklists      listView[domain.Checklist]
	serviceRequests listView[domain.ServiceRequest]
	advertisements  listView[domain.Advertisement]
}

// CatalogService serves the list and detail screens. Each session has its
// own views, so a mutation only updates the caller's lists.
type CatalogService struct {
	mu    sync.Mutex
	views map[string]*views
}

func NewCatalogService(registry *session.Registry) *CatalogService {
	s := &CatalogService{views: make(map[string]*views)}
	registry.OnDrop(s.drop)

	return s
}

func (s *CatalogService) viewsOf(sid string) *views {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[sid]
	if !ok {
		v = &views{}
		s.views[sid] = v
	}

	return v
}

func (s *CatalogService) drop(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.views, sid)
}

func guarded[T resource.Entity](caller Caller, fetch resource.Fetcher[T]) resource.Fetcher[T] {
	return func(ctx context.Context, page, size int) (resource.Page[T], error) {
		p, err := fetch(ctx, page, size)
		return p, caller.check(ctx, err)
	}
}

// Clients

func (s *CatalogService) Clients(ctx context.Context, caller Caller, q PageQuery) (resource.State[domain.User], error) {
	fetch := guarded(caller, resource.Window(caller.API.ListClients))

	st, err := s.viewsOf(caller.SID).clients.open(ctx, fetch, q)
	if err != nil {
		return st, fmt.Errorf("clients -> %w", err)
	}

	return st, nil
}

func (s *CatalogService) Client(ctx context.Context, caller Caller, id string) (domain.User, error) {
	user, err := s.clientDetail(caller).FetchOne(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("caller.API.GetUser -> %w", caller.check(ctx, err))
	}

	return user, nil
}

func (s *CatalogService) DeleteClient(ctx context.Context, caller Caller, id string) error {
	if err := s.clientDetail(caller).Remove(ctx, id); err != nil {
		return fmt.Errorf("caller.API.DeleteUser -> %w", caller.check(ctx, err))
	}

	return nil
}

func (s *CatalogService) clientDetail(caller Caller) *resource.Detail[domain.User, struct{}] {
	return resource.NewDetail(resource.Backend[domain.User, struct{}]{
		FetchOne: caller.API.GetUser,
		Remove:   caller.API.DeleteUser,
	}).Sync(s.viewsOf(caller.SID).clients.current())
}

// Garages

func (s *CatalogService) Garages(ctx context.Context, caller Caller, q PageQuery) (resource.State[domain.Garage], error) {
	fetch := guarded(caller, resource.Window(caller.API.ListGarages))

	st, err := s.viewsOf(caller.SID).garages.open(ctx, fetch, q)
	if err != nil {
		return st, fmt.Errorf("garages -> %w", err)
	}

	return st, nil
}

func (s *CatalogService) Garage(ctx context.Context, caller Caller, id string) (domain.Garage, error) {
	garage, err := s.garageDetail(caller).FetchOne(ctx, id)
	if err != nil {
		return domain.Garage{}, fmt.Errorf("caller.API.GetGarage -> %w", caller.check(ctx, err))
	}

	return garage, nil
}

func (s *CatalogService) DeleteGarage(ctx context.Context, caller Caller, id string) error {
	if err := s.garageDetail(caller).Remove(ctx, id); err != nil {
		return fmt.Errorf("caller.API.DeleteGarage -> %w", caller.check(ctx, err))
	}

	return nil
}

func (s *CatalogService) garageDetail(caller Caller) *resource.Detail[domain.Garage, struct{}] {
	return resource.NewDetail(resource.Backend[domain.Garage, struct{}]{
		FetchOne: caller.API.GetGarage,
		Remove:   caller.API.DeleteGarage,
	}).Sync(s.viewsOf(caller.SID).garages.current())
}

// Checklists

func (s *CatalogService) Checklists(ctx context.Context, caller Caller, q PageQuery) (resource.State[domain.Checklist], error) {
	fetch := guarded(caller, func(ctx context.Context, page, size int) (resource.Page[domain.Checklist], error) {
		p, err := caller.API.ListChecklists(ctx, page, size)
		if err != nil {
			return resource.Page[domain.Checklist]{}, err
		}
		return resource.Page[domain.Checklist]{Items: p.Checklists, Total: p.Total}, nil
	})

	st, err := s.viewsOf(caller.SID).checklists.open(ctx, fetch, q)
	if err != nil {
		return st, fmt.Errorf("checklists -> %w", err)
	}

	return st, nil
}

// Checklist returns the checklist translated for display.
func (s *CatalogService) Checklist(ctx context.Context, caller Caller, id string) (domain.ChecklistView, error) {
	c, err := caller.API.GetChecklist(ctx, id)
	if err != nil {
		return domain.ChecklistView{}, fmt.Errorf("caller.API.GetChecklist -> %w", caller.check(ctx, err))
	}

	return c.View(), nil
}

// AllChecklists walks every page of checklists.
func (s *CatalogService) AllChecklists(ctx context.Context, caller Caller) ([]domain.Checklist, error) {
	const pageSize = 100

	var all []domain.Checklist
	for page := 1; ; page++ {
		p, err := caller.API.ListChecklists(ctx, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("caller.API.ListChecklists -> %w", caller.check(ctx, err))
		}
		all = append(all, p.Checklists...)

		if page >= p.Pages || len(p.Checklists) == 0 {
			return all, nil
		}
	}
}

// Service requests

func (s *CatalogService) ServiceRequests(ctx context.Context, caller Caller, q PageQuery) (resource.State[domain.ServiceRequest], error) {
	fetch := guarded(caller, resource.Window(func(ctx context.Context) ([]domain.ServiceRequest, error) {
		reqs, err := caller.API.ListServiceRequests(ctx)
		for i := range reqs {
			reqs[i] = reqs[i].WithLabel()
		}
		return reqs, err
	}))

	st, err := s.viewsOf(caller.SID).serviceRequests.open(ctx, fetch, q)
	if err != nil {
		return st, fmt.Errorf("service requests -> %w", err)
	}

	return st, nil
}

func (s *CatalogService) ServiceRequest(ctx context.Context, caller Caller, id string) (domain.ServiceRequest, error) {
	req, err := caller.API.GetServiceRequest(ctx, id)
	if err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("caller.API.GetServiceRequest -> %w", caller.check(ctx, err))
	}

	return req.WithLabel(), nil
}

// Advertisements

func (s *CatalogService) Advertisements(ctx context.Context, caller Caller, q PageQuery) (resource.State[domain.Advertisement], error) {
	fetch := guarded(caller, resource.Window(caller.API.ListAdvertisements))

	st, err := s.viewsOf(caller.SID).advertisements.open(ctx, fetch, q)
	if err != nil {
		return st, fmt.Errorf("advertisements -> %w", err)
	}

	return st, nil
}

func (s *CatalogService) Advertisement(ctx context.Context, caller Caller, id string) (domain.Advertisement, error) {
	ad, err := s.advertisementDetail(caller).FetchOne(ctx, id)
	if err != nil {
		return domain.Advertisement{}, fmt.Errorf("caller.API.GetAdvertisement -> %w", caller.check(ctx, err))
	}

	return ad, nil
}

func (s *CatalogService) CreateAdvertisement(ctx context.Context, caller Caller, in domain.AdvertisementInput) (domain.Advertisement, error) {
	ad, err := s.advertisementDetail(caller).Create(ctx, in)
	if err != nil {
		return domain.Advertisement{}, fmt.Errorf("caller.API.CreateAdvertisement -> %w", caller.check(ctx, err))
	}

	return ad, nil
}

func (s *CatalogService) UpdateAdvertisement(ctx context.Context, caller Caller, id string, in domain.AdvertisementInput) (domain.Advertisement, error) {
	ad, err := s.advertisementDetail(caller).Update(ctx, id, in)
	if err != nil {
		return domain.Advertisement{}, fmt.Errorf("caller.API.UpdateAdvertisement -> %w", caller.check(ctx, err))
	}

	return ad, nil
}

func (s *CatalogService) DeleteAdvertisement(ctx context.Context, caller Caller, id string) error {
	if err := s.advertisementDetail(caller).Remove(ctx, id); err != nil {
		return fmt.Errorf("caller.API.DeleteAdvertisement -> %w", caller.check(ctx, err))
	}

	return nil
}

func (s *CatalogService) advertisementDetail(caller Caller) *resource.Detail[domain.Advertisement, domain.AdvertisementInput] {
	return resource.NewDetail(resource.Backend[domain.Advertisement, domain.AdvertisementInput]{
		FetchOne: caller.API.GetAdvertisement,
		Create:   caller.API.CreateAdvertisement,
		Update:   caller.API.UpdateAdvertisement,
		Remove:   caller.API.DeleteAdvertisement,
	}).Sync(s.viewsOf(caller.SID).advertisements.current())
}
