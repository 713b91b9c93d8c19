// Package memory implementa los repositorios en memoria. Se usa en pruebas y con APP_STORAGE=memory.
//
// Las transacciones trabajan sobre una copia del estado y se publican completas al confirmar;
// se serializan entre sí, de modo que un rollback nunca deja escrituras parciales visibles.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-sucursales/internal/application/ports"
	"github.com/jhoicas/Inventario-sucursales/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type invKey struct {
	productID string
	branchID  string
}

type state struct {
	branches      map[string]entity.Branch
	providers     map[string]entity.Provider
	products      map[string]entity.Product
	inventory     map[invKey]entity.InventoryRecord
	batches       map[string]entity.SupplyBatch
	batchLines    []entity.SupplyLineItem
	transfers     map[string]entity.Transfer
	transferLines []entity.TransferLineItem
	sales         map[string]entity.Sale
	saleLines     []entity.SaleLineItem
}

func newState() *state {
	return &state{
		branches:  make(map[string]entity.Branch),
		providers: make(map[string]entity.Provider),
		products:  make(map[string]entity.Product),
		inventory: make(map[invKey]entity.InventoryRecord),
		batches:   make(map[string]entity.SupplyBatch),
		transfers: make(map[string]entity.Transfer),
		sales:     make(map[string]entity.Sale),
	}
}

func (s *state) clone() *state {
	c := &state{
		branches:      make(map[string]entity.Branch, len(s.branches)),
		providers:     make(map[string]entity.Provider, len(s.providers)),
		products:      make(map[string]entity.Product, len(s.products)),
		inventory:     make(map[invKey]entity.InventoryRecord, len(s.inventory)),
		batches:       make(map[string]entity.SupplyBatch, len(s.batches)),
		batchLines:    append([]entity.SupplyLineItem(nil), s.batchLines...),
		transfers:     make(map[string]entity.Transfer, len(s.transfers)),
		transferLines: append([]entity.TransferLineItem(nil), s.transferLines...),
		sales:         make(map[string]entity.Sale, len(s.sales)),
		saleLines:     append([]entity.SaleLineItem(nil), s.saleLines...),
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.providers {
		c.providers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	return c
}

// Store estado compartido en memoria.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras directas
	mu   sync.RWMutex // protege data
	data *state
}

// NewStore crea un store vacío con las sucursales dadas.
func NewStore(branches ...entity.Branch) *Store {
	s := &Store{data: newState()}
	for _, b := range branches {
		s.data.branches[b.ID] = b
	}
	return s
}

// PutBranch agrega o reemplaza una sucursal del directorio.
func (s *Store) PutBranch(b entity.Branch) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.branches[b.ID] = b
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al estado solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(newRepos(&db{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Repos devuelve repositorios fuera de transacción: cada operación es atómica por sí sola.
func (s *Store) Repos() ports.Repos {
	return newRepos(&db{store: s})
}

// db abstrae si los repositorios trabajan sobre la copia de una transacción o sobre el store compartido.
type db struct {
	store *Store // nil dentro de una transacción
	st    *state
}

func (d *db) read(fn func(st *state)) {
	if d.store == nil {
		fn(d.st)
		return
	}
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	fn(d.store.data)
}

func (d *db) write(fn func(st *state) error) error {
	if d.store == nil {
		return fn(d.st)
	}
	d.store.txMu.Lock()
	defer d.store.txMu.Unlock()
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return fn(d.store.data)
}

func newRepos(d *db) ports.Repos {
	return ports.Repos{
		Branches:  &branchRepo{d},
		Providers: &providerRepo{d},
		Products:  &productRepo{d},
		Inventory: &inventoryRepo{d},
		Batches:   &batchRepo{d},
		Transfers: &transferRepo{d},
		Sales:     &saleRepo{d},
	}
}
