package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps products in process memory.
type MemoryStore struct {
	mutex    sync.RWMutex
	products map[int64]Product
	nextID   int64
}

func NewMemoryStore(seed ...Product) *MemoryStore {
	s := &MemoryStore{products: make(map[int64]Product)}
	for _, p := range seed {
		s.products[p.ID] = p
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, productNotFound(id)
	}
	return &p, nil
}

func (s *MemoryStore) List(ctx context.Context, spec PageSpec) (Page, error) {
	spec = spec.Normalize()

	s.mutex.RLock()
	all := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		all = append(all, p)
	}
	s.mutex.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		c := compareProducts(all[i], all[j], spec.Sort)
		if c == 0 {
			c = compareInt64(all[i].ID, all[j].ID)
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(all))
	start := min(spec.Offset(), len(all))
	end := min(start+spec.Size, len(all))

	return NewPage(all[start:end], spec, total), nil
}

func (s *MemoryStore) Create(ctx context.Context, p *Product) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p *Product) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		return productNotFound(p.ID)
	}
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.products[id]; !ok {
		return productNotFound(id)
	}
	delete(s.products, id)
	return nil
}

func compareProducts(a, b Product, field SortField) int {
	switch field {
	case SortByID:
		return compareInt64(a.ID, b.ID)
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	case SortByAvailableQuantity:
		return compareInt64(int64(a.AvailableQuantity), int64(b.AvailableQuantity))
	case SortByPrice:
		return a.Price.Cmp(b.Price)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
