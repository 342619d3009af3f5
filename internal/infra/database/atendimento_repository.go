package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"atendo/internal/domain/atendimento"
)

// atendimentoRepository implementa a interface AtendimentoRepository
type atendimentoRepository struct {
	db *bun.DB
}

// NewAtendimentoRepository cria uma nova instância do repositório de atendimentos
func NewAtendimentoRepository(db *bun.DB) atendimento.AtendimentoRepository {
	return &atendimentoRepository{db: db}
}

// Create cria um novo atendimento no banco de dados
func (r *atendimentoRepository) Create(ctx context.Context, atd *atendimento.Atendimento) error {
	_, err := r.db.NewInsert().Model(atd).Exec(ctx)
	return err
}

// GetByID busca um atendimento pelo ID
func (r *atendimentoRepository) GetByID(ctx context.Context, id uuid.UUID) (*atendimento.Atendimento, error) {
	atd := new(atendimento.Atendimento)
	err := r.db.NewSelect().Model(atd).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, atendimento.ErrAtendimentoNotFound
		}
		return nil, err
	}
	return atd, nil
}

// GetByProtocolo busca um atendimento pelo número de protocolo
func (r *atendimentoRepository) GetByProtocolo(ctx context.Context, protocolo string) (*atendimento.Atendimento, error) {
	atd := new(atendimento.Atendimento)
	err := r.db.NewSelect().Model(atd).Where("protocolo = ?", protocolo).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, atendimento.ErrAtendimentoNotFound
		}
		return nil, err
	}
	return atd, nil
}

// List retorna atendimentos, opcionalmente filtrados por status
func (r *atendimentoRepository) List(ctx context.Context, status *atendimento.StatusAtendimento) ([]*atendimento.Atendimento, error) {
	var atendimentos []*atendimento.Atendimento
	q := r.db.NewSelect().Model(&atendimentos).Order(`"iniciadoEm" DESC`)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return atendimentos, nil
}

// ListAbertos retorna atendimentos aguardando ou em andamento
func (r *atendimentoRepository) ListAbertos(ctx context.Context) ([]*atendimento.Atendimento, error) {
	var atendimentos []*atendimento.Atendimento
	err := r.db.NewSelect().
		Model(&atendimentos).
		Where("status != ?", atendimento.StatusFinalizado).
		Order(`"iniciadoEm" ASC`).
		Scan(ctx)

	if err != nil {
		return nil, err
	}
	return atendimentos, nil
}

// ExistsAbertoForContato verifica se o contato já tem atendimento aberto
func (r *atendimentoRepository) ExistsAbertoForContato(ctx context.Context, contatoID uuid.UUID) (bool, error) {
	count, err := r.db.NewSelect().
		Model((*atendimento.Atendimento)(nil)).
		Where("\"contatoId\" = ?", contatoID).
		Where("status != ?", atendimento.StatusFinalizado).
		Count(ctx)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Update atualiza um atendimento existente
func (r *atendimentoRepository) Update(ctx context.Context, atd *atendimento.Atendimento) error {
	atd.UpdatedAt = time.Now()

	_, err := r.db.NewUpdate().
		Model(atd).
		Where("id = ?", atd.ID).
		Exec(ctx)

	return err
}
