package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Contabilizar/estoque/internal/config"
	"github.com/Contabilizar/estoque/internal/model"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory FuncionarioRepository stub ─────────────────────────────────────

type stubFuncionarioRepo struct {
	mu     sync.Mutex
	byID   map[uint]*model.Funcionario
	nextID uint
	err    error
}

func newStubFuncionarioRepo() *stubFuncionarioRepo {
	return &stubFuncionarioRepo{byID: make(map[uint]*model.Funcionario)}
}

func (r *stubFuncionarioRepo) FindByLogin(_ context.Context, login string) (*model.Funcionario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, f := range r.byID {
		if f.Login == login {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFuncionarioRepo) FindByID(_ context.Context, id uint) (*model.Funcionario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFuncionarioRepo) CreateIfAbsent(_ context.Context, f *model.Funcionario) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Login == f.Login {
			return false, nil
		}
	}
	r.nextID++
	f.ID = r.nextID
	cp := *f
	r.byID[f.ID] = &cp
	return true, nil
}

func (r *stubFuncionarioRepo) Upsert(ctx context.Context, f *model.Funcionario) error {
	_, err := r.CreateIfAbsent(ctx, f)
	return err
}

func (r *stubFuncionarioRepo) setAtivo(id uint, ativo bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id].Ativo = ativo
}

// ── In-memory ItemRepository stub ────────────────────────────────────────────

type stubItemRepo struct {
	mu        sync.Mutex
	itens     map[uint]*model.Item
	nextID    uint
	updateErr error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{itens: make(map[uint]*model.Item)}
}

func (r *stubItemRepo) Create(_ context.Context, it *model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	it.ID = r.nextID
	cp := *it
	r.itens[it.ID] = &cp
	return nil
}

func (r *stubItemRepo) List(_ context.Context) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.Item, 0, len(r.itens))
	for _, it := range r.itens {
		result = append(result, *it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uint) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubItemRepo) FindByIDForUpdateTx(_ *gorm.DB, id uint) (*model.Item, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubItemRepo) UpdateStockTx(_ *gorm.DB, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	it, ok := r.itens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.EstoqueAtual += delta
	return nil
}

func (r *stubItemRepo) estoque(t *testing.T, id uint) int {
	t.Helper()
	it, err := r.FindByID(context.Background(), id)
	require.NoError(t, err)
	return it.EstoqueAtual
}

// ── In-memory MovimentacaoRepository stub ────────────────────────────────────

type stubMovimentacaoRepo struct {
	mu     sync.Mutex
	movs   []model.Movimentacao
	nextID uint
}

func (r *stubMovimentacaoRepo) CreateTx(_ *gorm.DB, m *model.Movimentacao) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimentacaoRepo) ListByItem(_ context.Context, itemID uint) ([]model.Movimentacao, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Movimentacao
	for _, m := range r.movs {
		if m.ItemID == itemID {
			result = append(result, m)
		}
	}
	return result, nil
}

// ── Transactor stub ──────────────────────────────────────────────────────────
// Serializes transactions (standing in for the row lock) and restores both
// stores when fn fails (standing in for ROLLBACK).

type stubTransactor struct {
	mu    sync.Mutex
	itens *stubItemRepo
	movs  *stubMovimentacaoRepo
}

func (t *stubTransactor) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.itens.mu.Lock()
	snapshot := make(map[uint]model.Item, len(t.itens.itens))
	for id, it := range t.itens.itens {
		snapshot[id] = *it
	}
	t.itens.mu.Unlock()
	t.movs.mu.Lock()
	nMovs := len(t.movs.movs)
	t.movs.mu.Unlock()

	if err := fn(nil); err != nil {
		t.itens.mu.Lock()
		for id, it := range snapshot {
			cp := it
			t.itens.itens[id] = &cp
		}
		t.itens.mu.Unlock()
		t.movs.mu.Lock()
		t.movs.movs = t.movs.movs[:nMovs]
		t.movs.mu.Unlock()
		return err
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:               testSecret,
		JWTExpirationHours:      8,
		BcryptCost:              bcrypt.MinCost,
		PermitirEstoqueNegativo: true,
	}
}

func seedFuncionario(t *testing.T, repo *stubFuncionarioRepo, login, senha, pin string) *model.Funcionario {
	t.Helper()
	senhaHash, err := service.HashSegredo(senha, bcrypt.MinCost)
	require.NoError(t, err)
	pinHash, err := service.HashSegredo(pin, bcrypt.MinCost)
	require.NoError(t, err)
	f := &model.Funcionario{
		Nome: "Test User", Login: login, SenhaHash: senhaHash, PinHash: pinHash, Ativo: true,
	}
	created, err := repo.CreateIfAbsent(context.Background(), f)
	require.NoError(t, err)
	require.True(t, created)
	return f
}

type retiradaFixture struct {
	funcionarios *stubFuncionarioRepo
	itens        *stubItemRepo
	movs         *stubMovimentacaoRepo
	svc          service.RetiradaService
}

func newRetiradaFixture(permitirNegativo bool) *retiradaFixture {
	fx := &retiradaFixture{
		funcionarios: newStubFuncionarioRepo(),
		itens:        newStubItemRepo(),
		movs:         &stubMovimentacaoRepo{},
	}
	tx := &stubTransactor{itens: fx.itens, movs: fx.movs}
	fx.svc = service.NewRetiradaService(fx.funcionarios, fx.itens, fx.movs, tx, permitirNegativo)
	return fx
}

func identidadeDe(f *model.Funcionario) *service.Identidade {
	return &service.Identidade{FuncionarioID: f.ID, Nome: f.Nome, TokenID: "jti", ExpiraEm: time.Now().Add(time.Hour)}
}
