package auth

import (
	"sync"

	"github.com/alexedwards/argon2id"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// Hash gera um hash Argon2id com sal aleatório (parâmetros embutidos no próprio hash).
func Hash(password string) (string, error) {
	return argon2id.CreateHash(password, params)
}

// Verify compara a senha com o hash Argon2id em tempo constante.
func Verify(password, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, encodedHash)
}

// VerifyDummy gasta o mesmo custo de Verify quando o e-mail não existe,
// para que a resposta não denuncie contas cadastradas.
func VerifyDummy(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = argon2id.CreateHash("sst-dummy-password", params)
	})
	if dummyHash == "" {
		return
	}
	_, _ = argon2id.ComparePasswordAndHash(password, dummyHash)
}
