package usecase

import (
	"context"
	"io"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"sort"
	"sync"
)

// memoryRepo - хранилище в памяти, фильтрует через ListingFilter.Matches
type memoryRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.Listing
	err     error
	calls   int
	creates int
}

func newMemoryRepo(seed ...domain.Listing) *memoryRepo {
	r := &memoryRepo{rows: make(map[int64]domain.Listing)}
	for _, l := range seed {
		r.rows[l.ID] = l
		if l.ID > r.nextID {
			r.nextID = l.ID
		}
	}
	return r
}

func (r *memoryRepo) Create(ctx context.Context, fields domain.ListingFields, image string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	r.creates++
	r.rows[r.nextID] = domain.Listing{ID: r.nextID, ListingFields: fields, Image: image}
	return r.nextID, nil
}

func (r *memoryRepo) FindWithFilter(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Listing, 0)
	for _, l := range r.rows {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	l, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, fields domain.ListingFields, image *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	l, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	l.ListingFields = fields
	if image != nil {
		l.Image = *image
	}
	r.rows[id] = l
	return true, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *memoryRepo) Ping(ctx context.Context) error {
	return r.err
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memoryImages struct {
	saved map[string]string
	err   error
}

func newMemoryImages() *memoryImages {
	return &memoryImages{saved: make(map[string]string)}
}

func (m *memoryImages) Save(ctx context.Context, filename, contentType string, body io.Reader) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.saved[filename] = string(data)
	return nil
}

type sentNotification struct {
	name, contact string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) NotifyNewListing(ctx context.Context, listingName, contactEmail string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{name: listingName, contact: contactEmail})
	return nil
}

type fakeEvents struct {
	published []port.ListingEvent
	err       error
}

func (e *fakeEvents) Publish(ctx context.Context, event port.ListingEvent) error {
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, event)
	return nil
}

func validDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Name:           "Cafetería La Plaza",
		ContactEmail:   "owner@example.com",
		Activity:       "Hostelería",
		Sector:         "Bar / Cafetería",
		Country:        "España",
		Location:       "Madrid",
		Description:    "Cafetería con terraza en zona céntrica",
		Revenue:        "180000",
		Employees:      "5",
		PropertyStatus: "alquiler",
		SalePrice:      "95000",
	}
}
