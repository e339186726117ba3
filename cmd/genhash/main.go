// genhash prints a bcrypt hash for a password or PIN, for manual inserts into funcionarios.
// Uso: go run ./cmd/genhash [-cost 10] <segredo>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Contabilizar/estoque/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: genhash [-cost N] <segredo>")
		os.Exit(2)
	}

	h, err := service.HashSegredo(flag.Arg(0), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(h)
}
