// seedfuncionario creates or updates an employee with hashed password and PIN.
// Uso: go run ./cmd/seedfuncionario -login maria -nome "Maria Souza" -senha s3nha -pin 1234 [-setor Almoxarifado]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/Contabilizar/estoque/internal/config"
	"github.com/Contabilizar/estoque/internal/infra"
	"github.com/Contabilizar/estoque/internal/model"
	"github.com/Contabilizar/estoque/internal/repository"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	login := flag.String("login", "", "login (obrigatório)")
	nome := flag.String("nome", "", "nome completo (obrigatório)")
	senha := flag.String("senha", "", "senha (obrigatório)")
	pin := flag.String("pin", "", "PIN de confirmação (obrigatório)")
	setor := flag.String("setor", "", "setor")
	flag.Parse()

	if *login == "" || *nome == "" || *senha == "" || *pin == "" {
		flag.Usage()
		os.Exit(2)
	}
	if len(*pin) > 10 {
		log.Fatal().Msg("PIN must be at most 10 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	senhaHash, err := service.HashSegredo(*senha, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	pinHash, err := service.HashSegredo(*pin, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	f := &model.Funcionario{
		Nome:      *nome,
		Login:     *login,
		SenhaHash: senhaHash,
		PinHash:   pinHash,
	}
	if *setor != "" {
		f.Setor = setor
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.NewFuncionarioRepository(db).Upsert(ctx, f); err != nil {
		log.Fatal().Err(err).Msg("upsert error")
	}
	log.Info().Str("login", *login).Msg("funcionário criado/atualizado")
}
