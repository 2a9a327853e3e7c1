package ouvidoria

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/util"
)

const messageSelect = `
        SELECT m.id, m.user_id, COALESCE(NULLIF(u.preferred_name, ''), u.name) AS owner_name,
               m.category, m.title, m.description, m.response, m.responded_at, m.created_at
        FROM ouvidoria_messages m
        JOIN users u ON u.id = m.user_id`

// Repository armazena mensagens da ouvidoria.
// Respostas simultâneas para a mesma mensagem não são coordenadas: vence a última gravação.
type Repository struct {
	db     sqlx.ExtContext
	policy Policy
}

// NewRepository aceita *sqlx.DB ou *sqlx.Tx. Política vazia equivale a overwrite.
func NewRepository(conn sqlx.ExtContext, policy Policy) *Repository {
	if policy == "" {
		policy = PolicyOverwrite
	}
	return &Repository{db: conn, policy: policy}
}

// Policy devolve a política de resposta em uso.
func (r *Repository) Policy() Policy {
	return r.policy
}

// Submit valida e grava mensagem do usuário ownerID.
func (r *Repository) Submit(ctx context.Context, ownerID int64, in SubmitInput) (Message, error) {
	category := strings.TrimSpace(in.Category)
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if err := util.RequireOneOf(category, "Categoria", Categories); err != nil {
		return Message{}, err
	}
	if err := util.RequireString(title, "Título"); err != nil {
		return Message{}, err
	}
	if err := util.RequireString(description, "Descrição"); err != nil {
		return Message{}, err
	}

	query := r.db.Rebind(`
        INSERT INTO ouvidoria_messages (user_id, category, title, description, created_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id`)

	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, query, ownerID, category, title, description, util.Now()); err != nil {
		return Message{}, fmt.Errorf("inserir mensagem: %w", err)
	}

	log.Info().Int64("message_id", id).Int64("user_id", ownerID).Str("category", category).Msg("ouvidoria: mensagem registrada")
	return r.Get(ctx, id)
}

// Get busca mensagem pelo id.
func (r *Repository) Get(ctx context.Context, id int64) (Message, error) {
	var msg Message
	if err := sqlx.GetContext(ctx, r.db, &msg, r.db.Rebind(messageSelect+` WHERE m.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, fmt.Errorf("buscar mensagem: %w", err)
	}
	return msg, nil
}

// Respond grava a resposta e o horário. Com PolicyReject uma mensagem já respondida
// devolve ErrAlreadyResponded; com PolicyOverwrite a resposta anterior é substituída.
func (r *Repository) Respond(ctx context.Context, id int64, text string) (Message, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return Message{}, err
	}

	text = strings.TrimSpace(text)
	if err := util.RequireString(text, "Resposta"); err != nil {
		return Message{}, err
	}

	query := `UPDATE ouvidoria_messages SET response = ?, responded_at = ? WHERE id = ?`
	if r.policy == PolicyReject {
		query += ` AND responded_at IS NULL`
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), text, util.Now(), id)
	if err != nil {
		return Message{}, fmt.Errorf("responder mensagem: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Message{}, err
	}
	if affected == 0 {
		if r.policy == PolicyReject {
			return Message{}, ErrAlreadyResponded
		}
		return Message{}, ErrNotFound
	}

	log.Info().Int64("message_id", id).Str("policy", string(r.policy)).Msg("ouvidoria: mensagem respondida")
	return r.Get(ctx, id)
}

// ListAll devolve todas as mensagens, mais recentes primeiro.
func (r *Repository) ListAll(ctx context.Context) ([]Message, error) {
	return r.list(ctx, messageSelect+` ORDER BY m.created_at DESC, m.id DESC`)
}

// ListByOwner devolve as mensagens de um usuário, mais recentes primeiro.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]Message, error) {
	return r.list(ctx, messageSelect+` WHERE m.user_id = ? ORDER BY m.created_at DESC, m.id DESC`, ownerID)
}

// CountTotal devolve o número de mensagens.
func (r *Repository) CountTotal(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM ouvidoria_messages`)
}

// CountResponded devolve o número de mensagens com resposta.
func (r *Repository) CountResponded(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM ouvidoria_messages WHERE responded_at IS NOT NULL`)
}

// Totals conta total e respondidas numa única consulta.
func (r *Repository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	query := `SELECT COUNT(*) AS total, COUNT(responded_at) AS responded FROM ouvidoria_messages`
	if err := sqlx.GetContext(ctx, r.db, &t, query); err != nil {
		return Totals{}, fmt.Errorf("contar mensagens: %w", err)
	}
	return t, nil
}

// AggregateByCategory conta mensagens por categoria, da mais frequente à menos frequente.
func (r *Repository) AggregateByCategory(ctx context.Context) ([]Count, error) {
	query := `SELECT category AS label, COUNT(*) AS total
        FROM ouvidoria_messages
        GROUP BY category
        ORDER BY COUNT(*) DESC, MIN(id) ASC`

	counts := []Count{}
	if err := sqlx.SelectContext(ctx, r.db, &counts, query); err != nil {
		return nil, fmt.Errorf("agregar categorias: %w", err)
	}
	return counts, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Message, error) {
	msgs := []Message{}
	if err := sqlx.SelectContext(ctx, r.db, &msgs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listar mensagens: %w", err)
	}
	return msgs, nil
}

func (r *Repository) count(ctx context.Context, query string) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, query); err != nil {
		return 0, fmt.Errorf("contar mensagens: %w", err)
	}
	return total, nil
}
