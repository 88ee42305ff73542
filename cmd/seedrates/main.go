// seedrates inicializa una base recién migrada: inserta la tabla de
// tarifas por defecto del municipio y, opcionalmente, un primer operador
// ADMIN para poder entrar al sistema.
//
// Uso: go run ./cmd/seedrates [-admin-email correo -admin-password clave [-admin-name nombre]]
//
// Las tarifas solo se escriben si la tabla está vacía; un seed repetido
// no pisa tarifas ya ajustadas por un administrador.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/auth"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/postgres"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/config"
)

func main() {
	adminEmail := flag.String("admin-email", "", "correo del operador ADMIN inicial (opcional)")
	adminPassword := flag.String("admin-password", "", "contraseña del operador ADMIN inicial")
	adminName := flag.String("admin-name", "Administrador", "nombre del operador ADMIN inicial")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	configRepo := postgres.NewTaxConfigRepository(pool)
	existing, err := configRepo.Get()
	if err != nil {
		fail("leer tarifas: %v", err)
	}
	if existing == nil {
		if err := configRepo.Save(entity.DefaultTaxConfig()); err != nil {
			fail("guardar tarifas por defecto: %v", err)
		}
		fmt.Println("Tarifas por defecto insertadas.")
	} else {
		fmt.Println("Tarifas ya existen, no se modifican.")
	}

	if *adminEmail == "" {
		return
	}

	operatorRepo := postgres.NewOperatorRepository(pool)
	authUC := auth.NewAuthUseCase(operatorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	op, err := authUC.Register(dto.RegisterRequest{
		Name:     *adminName,
		Email:    *adminEmail,
		Password: *adminPassword,
		Role:     string(entity.RoleAdmin),
	})
	switch {
	case err == nil:
		fmt.Printf("Operador ADMIN creado: %s <%s>\n", op.Name, op.Email)
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		fmt.Printf("Operador %s ya existe, no se modifica.\n", *adminEmail)
	default:
		fail("crear operador ADMIN: %v", err)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
