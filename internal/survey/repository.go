package survey

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gestaozabele/sst/internal/util"
)

// MsgMissingAnswers é a mensagem para perguntas obrigatórias em branco.
const MsgMissingAnswers = "Por favor, responda às perguntas obrigatórias."

// Repository armazena respostas e calcula agregados.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository aceita *sqlx.DB ou *sqlx.Tx.
func NewRepository(conn sqlx.ExtContext) *Repository {
	return &Repository{db: conn}
}

// Submit valida e insere uma resposta. Os rótulos são gravados exatamente como recebidos.
func (r *Repository) Submit(ctx context.Context, in SubmitInput) (Response, error) {
	if in.Satisfaction == "" || in.SafetyPerception == "" || in.SupportAccess == "" {
		return Response{}, util.Invalid(MsgMissingAnswers)
	}

	var comments *string
	if in.Comments != "" {
		c := in.Comments
		comments = &c
	}

	query := r.db.Rebind(`
        INSERT INTO survey_responses (satisfaction, safety_perception, support_access, comments, created_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id, satisfaction, safety_perception, support_access, comments, created_at`)

	var resp Response
	if err := sqlx.GetContext(ctx, r.db, &resp, query, in.Satisfaction, in.SafetyPerception, in.SupportAccess, comments, util.Now()); err != nil {
		return Response{}, fmt.Errorf("inserir resposta: %w", err)
	}
	return resp, nil
}

// AggregateBy agrupa as respostas pelo rótulo da pergunta, do mais frequente ao menos frequente.
// Empates seguem a ordem da primeira ocorrência.
func (r *Repository) AggregateBy(ctx context.Context, field Field) ([]Count, error) {
	if !field.valid() {
		return nil, fmt.Errorf("pergunta desconhecida: %q", field)
	}
	column := string(field)

	query := `SELECT ` + column + ` AS label, COUNT(*) AS total
        FROM survey_responses
        GROUP BY ` + column + `
        ORDER BY COUNT(*) DESC, MIN(id) ASC`

	counts := []Count{}
	if err := sqlx.SelectContext(ctx, r.db, &counts, query); err != nil {
		return nil, fmt.Errorf("agregar %s: %w", column, err)
	}
	return counts, nil
}

// TotalCount devolve o número de respostas.
func (r *Repository) TotalCount(ctx context.Context) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM survey_responses`); err != nil {
		return 0, fmt.Errorf("contar respostas: %w", err)
	}
	return total, nil
}

// CountWithComments devolve quantas respostas trazem comentário; comentários só com espaços não contam.
func (r *Repository) CountWithComments(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM survey_responses WHERE comments IS NOT NULL AND TRIM(comments) <> ''`
	if err := sqlx.GetContext(ctx, r.db, &total, query); err != nil {
		return 0, fmt.Errorf("contar comentários: %w", err)
	}
	return total, nil
}

// LatestComments devolve os comentários mais recentes.
func (r *Repository) LatestComments(ctx context.Context, limit int) ([]Comment, error) {
	query := r.db.Rebind(`
        SELECT comments, created_at
        FROM survey_responses
        WHERE comments IS NOT NULL AND TRIM(comments) <> ''
        ORDER BY created_at DESC, id DESC
        LIMIT ?`)

	comments := []Comment{}
	if err := sqlx.SelectContext(ctx, r.db, &comments, query, limit); err != nil {
		return nil, fmt.Errorf("listar comentários: %w", err)
	}
	return comments, nil
}
