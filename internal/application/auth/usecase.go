package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/dto"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/entity"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/domain/repository"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login de operadores.
type AuthUseCase struct {
	operators repository.OperatorRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operators repository.OperatorRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{operators: operators, jwtCfg: jwtCfg}
}

// Register crea un operador: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.OperatorResponse, error) {
	if strings.TrimSpace(in.Email) == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email requerido y password de al menos 8 caracteres", domain.ErrInvalidInput)
	}
	existing, _ := uc.operators.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := entity.OperatorRole(in.Role)
	switch role {
	case "":
		role = entity.RoleCajero
	case entity.RoleCajero, entity.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	op := &entity.Operator{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.operators.Create(op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// Login verifica email/password, genera JWT y retorna token + operador.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := uc.operators.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !op.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op.ID, op.Name, string(op.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Operator: *toOperatorResponse(op),
	}, nil
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	if op == nil {
		return nil
	}
	return &dto.OperatorResponse{
		ID:    op.ID,
		Name:  op.Name,
		Email: op.Email,
		Role:  string(op.Role),
	}
}
