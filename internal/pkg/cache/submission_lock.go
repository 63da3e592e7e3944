package cache

import (
	"context"
	"time"
)

// SubmissionLock impede que o mesmo formulário de venda seja processado duas vezes
// (duplo clique, reenvio do navegador) enquanto a chave estiver viva.
type SubmissionLock struct {
	client Client
	ttl    time.Duration
}

// NewSubmissionLock cria o lock com o TTL informado.
func NewSubmissionLock(client Client, ttl time.Duration) *SubmissionLock {
	return &SubmissionLock{client: client, ttl: ttl}
}

func submissionKey(scope, key string) string {
	return "idemp:" + scope + ":" + key
}

// Acquire devolve false quando a chave já foi usada dentro do TTL.
func (l *SubmissionLock) Acquire(ctx context.Context, scope, key string) (bool, error) {
	return l.client.SetNX(ctx, submissionKey(scope, key), "1", l.ttl)
}

// Release libera a chave para que uma submissão que falhou possa ser reenviada.
func (l *SubmissionLock) Release(ctx context.Context, scope, key string) error {
	return l.client.Delete(ctx, submissionKey(scope, key))
}
