package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Contabilizar/estoque/internal/config"
	"github.com/Contabilizar/estoque/internal/dto"
	"github.com/Contabilizar/estoque/internal/model"
	"github.com/Contabilizar/estoque/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Default administrator seeded on first boot.
const (
	AdminLogin = "admin"
	AdminSenha = "123456"
	AdminPIN   = "0000"
	AdminNome  = "Administrador"
	AdminSetor = "Administrativo"
)

// Claims are the custom claims embedded in every session token.
type Claims struct {
	FuncionarioID uint   `json:"id"`
	Nome          string `json:"nome"`
	jwt.RegisteredClaims
}

// Identidade is what a verified token proves about the caller.
type Identidade struct {
	FuncionarioID uint
	Nome          string
	TokenID       string
	ExpiraEm      time.Time
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Autenticar(ctx context.Context, token string) (*Identidade, error)
	Logout(ctx context.Context, id *Identidade) error
	// GarantirAdmin seeds the default administrator when missing and reports whether it did.
	GarantirAdmin(ctx context.Context) (bool, error)
}

type authService struct {
	repo       repository.FuncionarioRepository
	revogacoes repository.RevogacaoRepository
	cfg        *config.Config
	// dummyHash is compared against when the login does not exist so both
	// failure paths pay one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(repo repository.FuncionarioRepository, revogacoes repository.RevogacaoRepository, cfg *config.Config) AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	return &authService{repo: repo, revogacoes: revogacoes, cfg: cfg, dummyHash: dummy}
}

// HashSegredo hashes a password or PIN with bcrypt.
func HashSegredo(segredo string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(segredo), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	f, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Senha))
			return nil, ErrUsuarioNaoEncontrado
		}
		return nil, fmt.Errorf("buscar funcionario: %w", err)
	}

	cmpErr := bcrypt.CompareHashAndPassword([]byte(f.SenhaHash), []byte(req.Senha))
	// Deactivated employees look exactly like unknown logins.
	if !f.Ativo {
		return nil, ErrUsuarioNaoEncontrado
	}
	if cmpErr != nil {
		if !errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, fmt.Errorf("comparar senha: %w", cmpErr)
		}
		return nil, ErrSenhaIncorreta
	}

	token, err := s.generateToken(f, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token}, nil
}

func (s *authService) Autenticar(ctx context.Context, token string) (*Identidade, error) {
	if token == "" {
		return nil, ErrTokenAusente
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.FuncionarioID == 0 {
		return nil, ErrTokenInvalido
	}

	if claims.ID != "" {
		revogado, err := s.revogacoes.EstaRevogado(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("consultar revogacao: %w", err)
		}
		if revogado {
			return nil, ErrTokenInvalido
		}
	}

	f, err := s.repo.FindByID(ctx, claims.FuncionarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalido
		}
		return nil, fmt.Errorf("buscar funcionario: %w", err)
	}
	if !f.Ativo {
		return nil, ErrTokenInvalido
	}

	return &Identidade{
		FuncionarioID: claims.FuncionarioID,
		Nome:          claims.Nome,
		TokenID:       claims.ID,
		ExpiraEm:      claims.ExpiresAt.Time,
	}, nil
}

func (s *authService) Logout(ctx context.Context, id *Identidade) error {
	if id == nil || id.TokenID == "" {
		return ErrTokenInvalido
	}
	return s.revogacoes.Revogar(ctx, id.TokenID, id.ExpiraEm)
}

func (s *authService) GarantirAdmin(ctx context.Context) (bool, error) {
	if _, err := s.repo.FindByLogin(ctx, AdminLogin); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("buscar admin: %w", err)
	}

	senhaHash, err := HashSegredo(AdminSenha, s.cfg.BcryptCost)
	if err != nil {
		return false, err
	}
	pinHash, err := HashSegredo(AdminPIN, s.cfg.BcryptCost)
	if err != nil {
		return false, err
	}
	setor := AdminSetor
	created, err := s.repo.CreateIfAbsent(ctx, &model.Funcionario{
		Nome:      AdminNome,
		Login:     AdminLogin,
		SenhaHash: senhaHash,
		PinHash:   pinHash,
		Setor:     &setor,
		Ativo:     true,
	})
	if err != nil {
		return false, fmt.Errorf("criar admin: %w", err)
	}
	if created {
		log.Info().Str("login", AdminLogin).Msg("default administrator created")
	}
	return created, nil
}

func (s *authService) generateToken(f *model.Funcionario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		FuncionarioID: f.ID,
		Nome:          f.Nome,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(f.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
