package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/almacen-ledger/internal/domain/entity"
	"github.com/tu-usuario/almacen-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests del servicio de movimientos.
// Replican el contrato de los puertos, incluida la atomicidad de ApplyDelta
// (mutex en lugar del lock de fila de PostgreSQL) y el rollback del TxRunner
// (snapshot del estado antes del callback, restauración si falla).
// ──────────────────────────────────────────────────────────────────────────────

func levelKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

type fakeStockLevelRepo struct {
	mu     sync.Mutex
	levels map[string]*entity.StockLevel
	// failOnCall hace fallar la n-ésima llamada a ApplyDelta (1-based); 0 desactiva.
	failOnCall int
	failErr    error
	calls      int
}

func newFakeStockLevelRepo() *fakeStockLevelRepo {
	return &fakeStockLevelRepo{levels: make(map[string]*entity.StockLevel)}
}

func (f *fakeStockLevelRepo) ApplyDelta(_ context.Context, productID, warehouseID string, delta int64, at time.Time) (*entity.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOnCall > 0 && f.calls == f.failOnCall {
		return nil, f.failErr
	}
	k := levelKey(productID, warehouseID)
	s, ok := f.levels[k]
	if !ok {
		s = &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}
		f.levels[k] = s
	}
	s.Quantity += delta
	s.LastUpdatedAt = at
	out := *s
	return &out, nil
}

func (f *fakeStockLevelRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.levels[levelKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (f *fakeStockLevelRepo) List(_ context.Context, limit, offset int) ([]*entity.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.levels))
	for k := range f.levels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*entity.StockLevel, 0)
	for i, k := range keys {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		s := *f.levels[k]
		out = append(out, &s)
	}
	return out, nil
}

func (f *fakeStockLevelRepo) quantity(productID, warehouseID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.levels[levelKey(productID, warehouseID)]
	if !ok {
		return 0
	}
	return s.Quantity
}

func (f *fakeStockLevelRepo) rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.levels)
}

func (f *fakeStockLevelRepo) snapshot() map[string]entity.StockLevel {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]entity.StockLevel, len(f.levels))
	for k, v := range f.levels {
		out[k] = *v
	}
	return out
}

func (f *fakeStockLevelRepo) restore(snap map[string]entity.StockLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = make(map[string]*entity.StockLevel, len(snap))
	for k, v := range snap {
		s := v
		f.levels[k] = &s
	}
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements map[string]*entity.Movement
	products  *fakeProductRepo
	bodegas   *fakeWarehouseRepo
}

func newFakeMovementRepo(products *fakeProductRepo, bodegas *fakeWarehouseRepo) *fakeMovementRepo {
	return &fakeMovementRepo{
		movements: make(map[string]*entity.Movement),
		products:  products,
		bodegas:   bodegas,
	}
}

func (f *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.movements[m.ID] = &cp
	return nil
}

func (f *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeMovementRepo) Update(_ context.Context, m *entity.Movement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.movements[m.ID] = &cp
	return nil
}

func (f *fakeMovementRepo) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movements[id]; !ok {
		return false, nil
	}
	delete(f.movements, id)
	return true, nil
}

func (f *fakeMovementRepo) GetWithRefs(ctx context.Context, id string) (*repository.MovementWithRefs, error) {
	f.mu.Lock()
	m, ok := f.movements[id]
	if !ok {
		f.mu.Unlock()
		return nil, nil
	}
	cp := *m
	f.mu.Unlock()
	return f.withRefs(&cp), nil
}

func (f *fakeMovementRepo) List(_ context.Context, category string, limit, offset int) ([]repository.MovementWithRefs, error) {
	f.mu.Lock()
	all := make([]*entity.Movement, 0, len(f.movements))
	for _, m := range f.movements {
		cp := *m
		all = append(all, &cp)
	}
	f.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].OccurredAt.After(all[j].OccurredAt) })

	out := make([]repository.MovementWithRefs, 0)
	skipped := 0
	for _, m := range all {
		row := f.withRefs(m)
		if row == nil {
			continue // huérfano: el JOIN lo descarta
		}
		if category != "" {
			p, _ := f.products.GetByID(m.ProductID)
			if p == nil || p.Category != category {
				continue
			}
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *row)
	}
	return out, nil
}

// withRefs emula el INNER JOIN: nil si producto o bodega ya no existen.
func (f *fakeMovementRepo) withRefs(m *entity.Movement) *repository.MovementWithRefs {
	p, _ := f.products.GetByID(m.ProductID)
	w, _ := f.bodegas.GetByID(m.WarehouseID)
	if p == nil || w == nil {
		return nil
	}
	return &repository.MovementWithRefs{
		Movement:      *m,
		ProductSKU:    p.SKU,
		ProductName:   p.Name,
		WarehouseName: w.Name,
	}
}

func (f *fakeMovementRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.movements)
}

func (f *fakeMovementRepo) snapshot() map[string]entity.Movement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]entity.Movement, len(f.movements))
	for k, v := range f.movements {
		out[k] = *v
	}
	return out
}

func (f *fakeMovementRepo) restore(snap map[string]entity.Movement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = make(map[string]*entity.Movement, len(snap))
	for k, v := range snap {
		m := v
		f.movements[k] = &m
	}
}

type fakeProductRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	f := &fakeProductRepo{items: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		f.items[p.ID] = &cp
	}
	return f
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) Update(p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Product, 0, len(f.items))
	for _, p := range f.items {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeWarehouseRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Warehouse
}

func newFakeWarehouseRepo(warehouses ...*entity.Warehouse) *fakeWarehouseRepo {
	f := &fakeWarehouseRepo{items: make(map[string]*entity.Warehouse)}
	for _, w := range warehouses {
		cp := *w
		f.items[w.ID] = &cp
	}
	return f
}

func (f *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	f.items[w.ID] = &cp
	return nil
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWarehouseRepo) Update(w *entity.Warehouse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	f.items[w.ID] = &cp
	return nil
}

func (f *fakeWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Warehouse, 0, len(f.items))
	for _, w := range f.items {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeWarehouseRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

// fakeTxRunner ejecuta el callback sobre los repos compartidos. Si el callback
// falla, restaura el snapshot previo de libro y proyección (emula el rollback).
type fakeTxRunner struct {
	mov    *fakeMovementRepo
	levels *fakeStockLevelRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.StockLevelRepository) error) error {
	movSnap := f.mov.snapshot()
	lvlSnap := f.levels.snapshot()
	if err := fn(f.mov, f.levels); err != nil {
		f.mov.restore(movSnap)
		f.levels.restore(lvlSnap)
		return err
	}
	return nil
}
