package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-sucursales/internal/domain"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/repository"
)

var (
	_ repository.BranchRepository      = (*branchRepo)(nil)
	_ repository.ProviderRepository    = (*providerRepo)(nil)
	_ repository.ProductRepository     = (*productRepo)(nil)
	_ repository.InventoryRepository   = (*inventoryRepo)(nil)
	_ repository.SupplyBatchRepository = (*batchRepo)(nil)
	_ repository.TransferRepository    = (*transferRepo)(nil)
	_ repository.SaleRepository        = (*saleRepo)(nil)
)

// ── Sucursales ───────────────────────────────────────────────────────────────

type branchRepo struct{ d *db }

func (r *branchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	var out *entity.Branch
	r.d.read(func(st *state) {
		if b, ok := st.branches[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *branchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	var list []*entity.Branch
	r.d.read(func(st *state) {
		for _, b := range st.branches {
			b := b
			list = append(list, &b)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

type providerRepo struct{ d *db }

func providerConflict(st *state, p *entity.Provider) bool {
	for id, other := range st.providers {
		if id == p.ID {
			continue
		}
		if other.VisualCode == p.VisualCode || other.EANGlobalID == p.EANGlobalID {
			return true
		}
	}
	return false
}

func (r *providerRepo) Create(_ context.Context, p *entity.Provider) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.providers[p.ID]; ok || providerConflict(st, p) {
			return domain.ErrDuplicate
		}
		st.providers[p.ID] = *p
		return nil
	})
}

func (r *providerRepo) GetByID(_ context.Context, id string) (*entity.Provider, error) {
	var out *entity.Provider
	r.d.read(func(st *state) {
		if p, ok := st.providers[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *providerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Provider, error) {
	return r.GetByID(ctx, id)
}

func (r *providerRepo) Update(_ context.Context, p *entity.Provider) error {
	return r.d.write(func(st *state) error {
		cur, ok := st.providers[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if providerConflict(st, p) {
			return domain.ErrDuplicate
		}
		cur.Name = p.Name
		cur.VisualCode = p.VisualCode
		cur.LetterPrefix = p.LetterPrefix
		cur.LetterSequence = p.LetterSequence
		cur.EANGlobalID = p.EANGlobalID
		cur.UpdatedAt = p.UpdatedAt
		st.providers[p.ID] = cur
		return nil
	})
}

func (r *providerRepo) AdvanceSKUSequence(_ context.Context, providerID string, seq int) (bool, error) {
	advanced := false
	err := r.d.write(func(st *state) error {
		p, ok := st.providers[providerID]
		if !ok || seq <= p.LastSKUSequence {
			return nil
		}
		p.LastSKUSequence = seq
		p.UpdatedAt = time.Now()
		st.providers[providerID] = p
		advanced = true
		return nil
	})
	return advanced, err
}

func (r *providerRepo) LockLetter(context.Context, string) error { return nil }

func (r *providerRepo) MaxLetterSequence(_ context.Context, letter string) (int, error) {
	max := 0
	r.d.read(func(st *state) {
		for _, p := range st.providers {
			if p.LetterPrefix == letter && p.LetterSequence > max {
				max = p.LetterSequence
			}
		}
	})
	return max, nil
}

// ── Productos ────────────────────────────────────────────────────────────────

type productRepo struct{ d *db }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.products {
			if other.SKU == p.SKU || (p.Barcode != "" && other.Barcode == p.Barcode) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.d.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.d.read(func(st *state) {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

// ── Inventario ───────────────────────────────────────────────────────────────

type inventoryRepo struct{ d *db }

func (r *inventoryRepo) Get(_ context.Context, productID, branchID string) (*entity.InventoryRecord, error) {
	out := &entity.InventoryRecord{ProductID: productID, BranchID: branchID}
	r.d.read(func(st *state) {
		if rec, ok := st.inventory[invKey{productID, branchID}]; ok {
			*out = rec
		}
	})
	return out, nil
}

func (r *inventoryRepo) Adjust(_ context.Context, productID, branchID string, delta int) (int, error) {
	var qty int
	err := r.d.write(func(st *state) error {
		key := invKey{productID, branchID}
		rec, ok := st.inventory[key]
		if !ok {
			rec = entity.InventoryRecord{ProductID: productID, BranchID: branchID}
		}
		if delta < 0 && rec.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		if delta > 0 {
			if _, ok := entity.AddQuantity(rec.Quantity, delta); !ok {
				return domain.ErrInvalidInput
			}
		}
		if !ok && delta <= 0 {
			// Sin fila y sin incremento: no se crea registro.
			qty = 0
			return nil
		}
		rec.Quantity += delta
		rec.UpdatedAt = time.Now()
		st.inventory[key] = rec
		qty = rec.Quantity
		return nil
	})
	return qty, err
}

func (r *inventoryRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.InventoryView, error) {
	var list []*entity.InventoryView
	r.d.read(func(st *state) {
		for key, rec := range st.inventory {
			if key.branchID != branchID {
				continue
			}
			p, ok := st.products[key.productID]
			if !ok {
				continue
			}
			list = append(list, &entity.InventoryView{
				BranchID:   branchID,
				ProductID:  p.ID,
				ProviderID: p.ProviderID,
				SKU:        p.SKU,
				Barcode:    p.Barcode,
				Name:       p.Name,
				SalePrice:  p.SalePrice,
				CostPrice:  p.CostPrice,
				Quantity:   rec.Quantity,
				UpdatedAt:  rec.UpdatedAt,
			})
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}

// ── Lotes de abastecimiento ──────────────────────────────────────────────────

type batchRepo struct{ d *db }

func (r *batchRepo) GetByProviderAndCodeForUpdate(_ context.Context, providerID, batchCode string) (*entity.SupplyBatch, error) {
	var out *entity.SupplyBatch
	r.d.read(func(st *state) {
		for _, b := range st.batches {
			if b.ProviderID == providerID && b.BatchCode == batchCode {
				b := b
				out = &b
				return
			}
		}
	})
	return out, nil
}

func (r *batchRepo) Create(_ context.Context, b *entity.SupplyBatch) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range st.batches {
			if other.ProviderID == b.ProviderID && other.BatchCode == b.BatchCode {
				return domain.ErrDuplicate
			}
		}
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.SupplyBatch, error) {
	var out *entity.SupplyBatch
	r.d.read(func(st *state) {
		if b, ok := st.batches[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *batchRepo) AddTotalCost(_ context.Context, batchID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.d.write(func(st *state) error {
		b, ok := st.batches[batchID]
		if !ok {
			return domain.ErrNotFound
		}
		b.TotalCost = b.TotalCost.Add(delta)
		st.batches[batchID] = b
		total = b.TotalCost
		return nil
	})
	return total, err
}

func (r *batchRepo) CreateLineItem(_ context.Context, item *entity.SupplyLineItem) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.batches[item.BatchID]; !ok {
			return domain.ErrNotFound
		}
		st.batchLines = append(st.batchLines, *item)
		return nil
	})
}

func (r *batchRepo) ListLineItems(_ context.Context, batchID string) ([]*entity.SupplyLineItem, error) {
	var list []*entity.SupplyLineItem
	r.d.read(func(st *state) {
		for _, it := range st.batchLines {
			if it.BatchID == batchID {
				it := it
				list = append(list, &it)
			}
		}
	})
	return list, nil
}

// ── Traslados ────────────────────────────────────────────────────────────────

type transferRepo struct{ d *db }

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *transferRepo) CreateLineItem(_ context.Context, item *entity.TransferLineItem) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.transfers[item.TransferID]; !ok {
			return domain.ErrNotFound
		}
		st.transferLines = append(st.transferLines, *item)
		return nil
	})
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	r.d.read(func(st *state) {
		if t, ok := st.transfers[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) ListLineItems(_ context.Context, transferID string) ([]*entity.TransferLineItem, error) {
	var list []*entity.TransferLineItem
	r.d.read(func(st *state) {
		for _, it := range st.transferLines {
			if it.TransferID == transferID {
				it := it
				list = append(list, &it)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (r *transferRepo) Resolve(_ context.Context, t *entity.Transfer) error {
	return r.d.write(func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok || cur.State != entity.TransferStateInTransit {
			return domain.ErrInvalidStateTransition
		}
		cur.State = t.State
		cur.ResolvedAt = t.ResolvedAt
		cur.ResolvedBy = t.ResolvedBy
		cur.RejectReason = t.RejectReason
		st.transfers[t.ID] = cur
		return nil
	})
}

func (r *transferRepo) filter(keep func(t entity.Transfer) bool) []*entity.Transfer {
	var list []*entity.Transfer
	r.d.read(func(st *state) {
		for _, t := range st.transfers {
			if keep(t) {
				t := t
				list = append(list, &t)
			}
		}
	})
	return list
}

func (r *transferRepo) ListByDestination(_ context.Context, branchID string, states ...string) ([]*entity.Transfer, error) {
	list := r.filter(func(t entity.Transfer) bool {
		if t.DestinationBranchID != branchID {
			return false
		}
		if len(states) == 0 {
			return true
		}
		for _, s := range states {
			if t.State == s {
				return true
			}
		}
		return false
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].SentAt.Equal(list[j].SentAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].SentAt.After(list[j].SentAt)
	})
	return list, nil
}

func (r *transferRepo) ListTerminalByBranch(_ context.Context, branchID string) ([]*entity.Transfer, error) {
	list := r.filter(func(t entity.Transfer) bool {
		return t.IsTerminal() && (t.OriginBranchID == branchID || t.DestinationBranchID == branchID)
	})
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].ResolvedAt, list[j].ResolvedAt
		if a == nil || b == nil || a.Equal(*b) {
			return list[i].ID < list[j].ID
		}
		return a.After(*b)
	})
	return list, nil
}

// ── Ventas ───────────────────────────────────────────────────────────────────

type saleRepo struct{ d *db }

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.sales[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[s.ID] = *s
		return nil
	})
}

func (r *saleRepo) CreateLineItem(_ context.Context, it *entity.SaleLineItem) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.sales[it.SaleID]; !ok {
			return domain.ErrNotFound
		}
		st.saleLines = append(st.saleLines, *it)
		return nil
	})
}
