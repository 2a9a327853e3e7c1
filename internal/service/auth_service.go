package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/util"
)

// ErrInvalidCredentials indica falha na autenticação, sem distinguir e-mail de senha.
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// UserStore é o subconjunto do repositório de usuários usado na autenticação.
type UserStore interface {
	Create(ctx context.Context, params repo.CreateUserParams) (repo.User, error)
	GetByEmail(ctx context.Context, email string) (repo.User, error)
	GetByID(ctx context.Context, id int64) (repo.User, error)
}

// AuthService concentra cadastro, login e sessão.
type AuthService struct {
	users UserStore
}

// NewAuthService cria novo serviço.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput representa o formulário de cadastro.
type RegisterInput struct {
	Name          string
	PreferredName string
	Email         string
	Password      string
	Role          string
}

// Register cria um usuário. O papel solicitado só é aceito quando quem cadastra é admin.
func (s *AuthService) Register(ctx context.Context, sc SessionContext, in RegisterInput) (repo.User, error) {
	name := strings.TrimSpace(in.Name)
	if err := util.RequireString(name, "Nome"); err != nil {
		return repo.User{}, err
	}
	if err := util.RequireString(in.Email, "E-mail"); err != nil {
		return repo.User{}, err
	}
	if in.Password == "" {
		return repo.User{}, util.Invalid("Preencha o campo Senha.")
	}

	email := repo.NormalizeEmail(in.Email)
	if err := util.ValidateEmail(email); err != nil {
		return repo.User{}, err
	}

	role := repo.RoleUser
	requested := strings.ToLower(strings.TrimSpace(in.Role))
	if sc.IsAdmin() {
		if requested != "" {
			if !repo.IsValidRole(requested) {
				return repo.User{}, util.Invalid("Papel inválido.")
			}
			role = requested
		}
	} else if requested != "" && requested != repo.RoleUser {
		log.Warn().Str("requested_role", requested).Msg("cadastro: elevação de papel ignorada para não administrador")
	}

	hash, err := auth.Hash(in.Password)
	if err != nil {
		return repo.User{}, err
	}

	var preferred *string
	if p := strings.TrimSpace(in.PreferredName); p != "" {
		preferred = &p
	}

	user, err := s.users.Create(ctx, repo.CreateUserParams{
		Name:          name,
		PreferredName: preferred,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
	})
	if err != nil {
		return repo.User{}, err
	}

	log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("usuário cadastrado")
	return user, nil
}

// Login valida credenciais e reinicia a sessão para o usuário autenticado.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password string) (repo.User, error) {
	email = repo.NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.VerifyDummy(password)
			log.Warn().Msg("login: credenciais inválidas")
			return repo.User{}, ErrInvalidCredentials
		}
		return repo.User{}, err
	}

	ok, err := auth.Verify(password, user.PasswordHash)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("login: hash de senha ilegível")
		return repo.User{}, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: credenciais inválidas")
		return repo.User{}, ErrInvalidCredentials
	}

	sess.Renew()
	sess.SetUser(user.ID, user.Role)
	return user, nil
}

// Logout descarta todo o estado da sessão; seguro mesmo sem login.
func (s *AuthService) Logout(sess *session.Session) {
	sess.Renew()
}

// CurrentUser relê o usuário da sessão no banco; nil quando anônimo ou usuário inexistente.
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Session) (*repo.User, error) {
	id := sess.UserID()
	if id == 0 {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Context monta o SessionContext da requisição.
func (s *AuthService) Context(ctx context.Context, sess *session.Session) (SessionContext, error) {
	user, err := s.CurrentUser(ctx, sess)
	if err != nil {
		return SessionContext{}, err
	}
	return SessionContext{User: user}, nil
}
