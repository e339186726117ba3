package service

import (
	"context"

	"github.com/Contabilizar/estoque/internal/dto"
	"github.com/Contabilizar/estoque/internal/model"
	"github.com/Contabilizar/estoque/internal/repository"
)

// ItemService defines the business logic contract for the catalog.
type ItemService interface {
	Cadastrar(ctx context.Context, req dto.CadastrarItemRequest) (*dto.CadastrarItemResponse, error)
	Listar(ctx context.Context) ([]dto.ItemResponse, error)
}

type itemService struct {
	repo repository.ItemRepository
}

func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

// Cadastrar stores stock values exactly as given, negatives included.
func (s *itemService) Cadastrar(ctx context.Context, req dto.CadastrarItemRequest) (*dto.CadastrarItemResponse, error) {
	it := &model.Item{
		Nome:          req.Nome,
		Categoria:     req.Categoria,
		EstoqueAtual:  req.EstoqueAtual,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return &dto.CadastrarItemResponse{Message: "Item cadastrado com sucesso", ID: it.ID}, nil
}

func (s *itemService) Listar(ctx context.Context) ([]dto.ItemResponse, error) {
	itens, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ItemResponse, len(itens))
	for i, it := range itens {
		resp[i] = itemToResponse(&it)
	}
	return resp, nil
}

func itemToResponse(it *model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID,
		Nome:          it.Nome,
		Categoria:     it.Categoria,
		EstoqueAtual:  it.EstoqueAtual,
		EstoqueMinimo: it.EstoqueMinimo,
		Ativo:         it.Ativo,
	}
}
