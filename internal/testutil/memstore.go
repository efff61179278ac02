// Package testutil provee repositorios en memoria y un TxRunner falso para
// ejercitar los casos de uso sin PostgreSQL. Las lecturas devuelven copias,
// como lo haría un scan de fila: mutar el resultado no toca el almacén hasta
// llamar Update.
//
// El TxRunner falso ejecuta el callback directamente, sin rollback; los tests
// verifican códigos de error y estado final, no reversiones parciales.
package testutil

import (
	"sort"
	"strings"
	"sync"

	"github.com/rtrejos/almacen-api/internal/domain"
	"github.com/rtrejos/almacen-api/internal/domain/entity"
	"github.com/rtrejos/almacen-api/internal/domain/repository"
)

// MemStore estado compartido por todos los repos en memoria.
type MemStore struct {
	mu         sync.Mutex
	units      map[string]*entity.StockUnit
	warehouses map[string]*entity.Warehouse
	transfers  map[string]*entity.WarehouseTransfer
	orders     map[string]*entity.ReplenishmentOrder
	events     []*entity.InventoryShrinkageEvent
}

// NewMemStore crea el almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{
		units:      make(map[string]*entity.StockUnit),
		warehouses: make(map[string]*entity.Warehouse),
		transfers:  make(map[string]*entity.WarehouseTransfer),
		orders:     make(map[string]*entity.ReplenishmentOrder),
	}
}

// Units devuelve el repo de unidades atado al store.
func (s *MemStore) Units() repository.StockUnitRepository { return &memUnitRepo{s} }

// Warehouses devuelve el repo de almacenes atado al store.
func (s *MemStore) Warehouses() repository.WarehouseRepository { return &memWarehouseRepo{s} }

// Transfers devuelve el repo de traspasos atado al store.
func (s *MemStore) Transfers() repository.TransferRepository { return &memTransferRepo{s} }

// Orders devuelve el repo de pedidos atado al store.
func (s *MemStore) Orders() repository.ReplenishmentOrderRepository { return &memOrderRepo{s} }

// Events devuelve el repo de mermas atado al store.
func (s *MemStore) Events() repository.ShrinkageRepository { return &memShrinkageRepo{s} }

// SeedWarehouse inserta un almacén directamente (arranque de fixtures).
func (s *MemStore) SeedWarehouse(w *entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.warehouses[w.ID] = &cp
}

// SeedUnit inserta una unidad directamente.
func (s *MemStore) SeedUnit(u *entity.StockUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.units[u.ID] = &cp
}

// EventCount cantidad total de eventos de merma registrados.
func (s *MemStore) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// ---- copias superficiales; los punteros internos se reasignan, no se mutan ----

func cloneUnit(u *entity.StockUnit) *entity.StockUnit {
	cp := *u
	return &cp
}

func cloneTransfer(t *entity.WarehouseTransfer) *entity.WarehouseTransfer {
	cp := *t
	cp.Details = append([]entity.WarehouseTransferDetail(nil), t.Details...)
	return &cp
}

func cloneOrder(o *entity.ReplenishmentOrder) *entity.ReplenishmentOrder {
	cp := *o
	cp.Details = append([]entity.ReplenishmentOrderDetail(nil), o.Details...)
	return &cp
}

// ---- unidades ----

type memUnitRepo struct{ s *MemStore }

func (r *memUnitRepo) Create(unit *entity.StockUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.units[unit.ID] = cloneUnit(unit)
	return nil
}

func (r *memUnitRepo) GetByID(id string) (*entity.StockUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	return cloneUnit(u), nil
}

func (r *memUnitRepo) GetByIDs(ids []string) ([]*entity.StockUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockUnit
	for _, id := range ids {
		if u, ok := r.s.units[id]; ok {
			out = append(out, cloneUnit(u))
		}
	}
	return out, nil
}

func (r *memUnitRepo) Update(unit *entity.StockUnit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.units[unit.ID] = cloneUnit(unit)
	return nil
}

func (r *memUnitRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockUnit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockUnit
	for _, u := range r.s.units {
		if u.CurrentWarehouseID != nil && *u.CurrentWarehouseID == warehouseID && !u.IsDeleted {
			out = append(out, cloneUnit(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// ---- almacenes ----

type memWarehouseRepo struct{ s *MemStore }

func (r *memWarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[warehouse.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *warehouse
	r.s.warehouses[warehouse.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

// ---- traspasos ----

type memTransferRepo struct{ s *MemStore }

func (r *memTransferRepo) Create(transfer *entity.WarehouseTransfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transfers[transfer.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.transfers[transfer.ID] = cloneTransfer(transfer)
	return nil
}

func (r *memTransferRepo) GetByID(id string) (*entity.WarehouseTransfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r *memTransferRepo) GetDetailByID(id string) (*entity.WarehouseTransferDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transfers {
		for i := range t.Details {
			if t.Details[i].ID == id {
				cp := t.Details[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memTransferRepo) UpdateStatus(transfer *entity.WarehouseTransfer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.transfers[transfer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = transfer.Status
	stored.CompletedBy = transfer.CompletedBy
	stored.CompletedAt = transfer.CompletedAt
	return nil
}

func (r *memTransferRepo) UpdateDetail(detail *entity.WarehouseTransferDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transfers {
		for i := range t.Details {
			if t.Details[i].ID == detail.ID {
				t.Details[i] = *detail
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memTransferRepo) List(warehouseID string, status entity.TransferStatus, limit, offset int) ([]*entity.WarehouseTransfer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WarehouseTransfer
	for _, t := range r.s.transfers {
		if warehouseID != "" && t.SourceWarehouseID != warehouseID && t.DestinationWarehouseID != warehouseID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, cloneTransfer(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), nil
}

func (r *memTransferRepo) MaxNumberWithPrefix(prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := ""
	for _, t := range r.s.transfers {
		if strings.HasPrefix(t.Number, prefix) && t.Number > max {
			max = t.Number
		}
	}
	return max, nil
}

func (r *memTransferRepo) OpenTransferIDsByUnit(stockUnitID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, t := range r.s.transfers {
		if t.Status.Terminal() {
			continue
		}
		for i := range t.Details {
			if t.Details[i].StockUnitID == stockUnitID {
				out = append(out, t.ID)
				break
			}
		}
	}
	return out, nil
}

// ---- pedidos ----

type memOrderRepo struct{ s *MemStore }

func (r *memOrderRepo) Create(order *entity.ReplenishmentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, o := range r.s.orders {
		if o.Number == order.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.ReplenishmentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) Update(order *entity.ReplenishmentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = order.Status
	stored.Notes = order.Notes
	stored.SentBy = order.SentBy
	stored.SentAt = order.SentAt
	stored.ReceivedBy = order.ReceivedBy
	stored.ReceivedAt = order.ReceivedAt
	stored.TransferID = order.TransferID
	stored.UpdatedAt = order.UpdatedAt
	return nil
}

func (r *memOrderRepo) GetDetailByID(id string) (*entity.ReplenishmentOrderDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		for i := range o.Details {
			if o.Details[i].ID == id {
				cp := o.Details[i]
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *memOrderRepo) UpdateDetail(detail *entity.ReplenishmentOrderDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		for i := range o.Details {
			if o.Details[i].ID == detail.ID {
				o.Details[i] = *detail
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memOrderRepo) List(status entity.OrderStatus, limit, offset int) ([]*entity.ReplenishmentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReplenishmentOrder
	for _, o := range r.s.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), nil
}

func (r *memOrderRepo) MaxNumberWithPrefix(prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := ""
	for _, o := range r.s.orders {
		if strings.HasPrefix(o.Number, prefix) && o.Number > max {
			max = o.Number
		}
	}
	return max, nil
}

func (r *memOrderRepo) ListUnfulfilledDetails() ([]*entity.ReplenishmentOrderDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReplenishmentOrderDetail
	for _, o := range r.s.orders {
		if o.Status != entity.OrderReceived {
			continue
		}
		for i := range o.Details {
			d := o.Details[i]
			if !d.BuyOrderGenerated && d.SentQuantity < d.Quantity {
				cp := d
				out = append(out, &cp)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memOrderRepo) MarkBuyOrderGenerated(detailIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[string]bool, len(detailIDs))
	for _, id := range detailIDs {
		want[id] = true
	}
	var n int64
	for _, o := range r.s.orders {
		for i := range o.Details {
			if want[o.Details[i].ID] && !o.Details[i].BuyOrderGenerated {
				o.Details[i].BuyOrderGenerated = true
				n++
			}
		}
	}
	return n, nil
}

// ---- mermas ----

type memShrinkageRepo struct{ s *MemStore }

func (r *memShrinkageRepo) Create(event *entity.InventoryShrinkageEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Respaldo de la constraint única (stock_unit_id, reason).
	for _, e := range r.s.events {
		if e.StockUnitID == event.StockUnitID && e.Reason == event.Reason {
			return domain.ErrDuplicate
		}
	}
	cp := *event
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r *memShrinkageRepo) ExistsByUnitAndReason(stockUnitID, reason string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.StockUnitID == stockUnitID && e.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (r *memShrinkageRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.InventoryShrinkageEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryShrinkageEvent
	for _, e := range r.s.events {
		if e.WarehouseID == warehouseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memShrinkageRepo) ListByUnit(stockUnitID string) ([]*entity.InventoryShrinkageEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryShrinkageEvent
	for _, e := range r.s.events {
		if e.StockUnitID == stockUnitID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
