package transitrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/logger"
)

// TransitRepository implementa o contrato de persistência de itens em trânsito.
type TransitRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTransitRepository cria e retorna uma nova instância do Repositório de Trânsito.
func NewTransitRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *TransitRepository {
	return &TransitRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const transitColumns = `id, fabric_name, fabric_type, sub_type, supplier, quantity, expected_date, created_at`

func scanItem(row interface{ Scan(...interface{}) error }) (domain.InTransitItem, error) {
	var item domain.InTransitItem
	err := row.Scan(
		&item.ID, &item.FabricName, &item.FabricType, &item.SubType,
		&item.Supplier, &item.Quantity, &item.ExpectedDate, &item.CreatedAt,
	)
	return item, err
}

// Save persiste um novo item em trânsito.
func (r *TransitRepository) Save(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error) {
	r.logger.Debug("Iniciando Save de item em trânsito.", map[string]interface{}{"fabric_name": item.FabricName, "supplier": item.Supplier})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
        INSERT INTO in_transit (` + transitColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		item.ID, item.FabricName, item.FabricType, item.SubType,
		item.Supplier, item.Quantity, item.ExpectedDate, item.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir item em trânsito no DB.", err)
		return domain.InTransitItem{}, apperror.NewDBError("Falha ao inserir item em trânsito", err)
	}

	r.logger.Info("Item em trânsito salvo com sucesso.", map[string]interface{}{"id": item.ID})
	return item, nil
}

// FindByID busca um item em trânsito pelo ID.
func (r *TransitRepository) FindByID(ctx context.Context, id string) (domain.InTransitItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + transitColumns + ` FROM in_transit WHERE id = $1`
	item, err := scanItem(r.DB.QueryRowContext(ctxTimeout, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.InTransitItem{}, apperror.NewNotFoundError(fmt.Sprintf("Item em trânsito com ID %s não existe.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item em trânsito no DB.", err)
		return domain.InTransitItem{}, apperror.NewDBError("Falha ao buscar item em trânsito", err)
	}
	return item, nil
}

// FindAll retorna todos os itens em trânsito, ordenados pela data prevista.
func (r *TransitRepository) FindAll(ctx context.Context) ([]domain.InTransitItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + transitColumns + ` FROM in_transit ORDER BY expected_date`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar itens em trânsito no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar itens em trânsito", err)
	}
	defer rows.Close()

	items := make([]domain.InTransitItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear item em trânsito", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer itens em trânsito", err)
	}

	return items, nil
}

// Update sobrescreve os campos de um item em trânsito existente.
func (r *TransitRepository) Update(ctx context.Context, item domain.InTransitItem) (domain.InTransitItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `
        UPDATE in_transit
        SET fabric_name = $1, fabric_type = $2, sub_type = $3, supplier = $4,
            quantity = $5, expected_date = $6
        WHERE id = $7
        RETURNING ` + transitColumns

	updated, err := scanItem(r.DB.QueryRowContext(ctxTimeout, updateSQL,
		item.FabricName, item.FabricType, item.SubType, item.Supplier,
		item.Quantity, item.ExpectedDate, item.ID,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.InTransitItem{}, apperror.NewNotFoundError(fmt.Sprintf("Item em trânsito com ID %s não existe.", item.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar item em trânsito no DB.", err)
		return domain.InTransitItem{}, apperror.NewDBError("Falha ao atualizar item em trânsito", err)
	}

	r.logger.Info("Item em trânsito atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// ReceiveDelivery reconcilia um item em trânsito no inventário dentro de uma
// única transação: trava o item, busca o tecido correspondente (nome + tipo),
// incrementa a quantidade e sobrescreve o fornecedor — ou cria um novo tecido
// com valores padrão — e remove o item. Tudo commita ou nada commita: uma
// repetição após sucesso encontra o item ausente e retorna NotFound, o que
// garante que o estoque seja movido exatamente uma vez.
func (r *TransitRepository) ReceiveDelivery(ctx context.Context, itemID, userID string) (domain.Fabric, error) {
	r.logger.Debug("Iniciando reconciliação de entrega no repositório.", map[string]interface{}{"item_id": itemID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de reconciliação.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	// 1. Travar o item em trânsito. Se não existir, a entrega já foi
	//    confirmada (ou o ID é inválido) — não há nada a mover.
	const selectItemSQL = `SELECT ` + transitColumns + ` FROM in_transit WHERE id = $1 FOR UPDATE`
	item, err := scanItem(tx.QueryRowContext(ctxTimeout, selectItemSQL, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Item em trânsito não encontrado para reconciliação.", map[string]interface{}{"item_id": itemID})
		return domain.Fabric{}, apperror.NewNotFoundError(fmt.Sprintf("Item em trânsito com ID %s não existe.", itemID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item em trânsito para reconciliação.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao buscar item em trânsito", err)
	}

	// 2. Buscar tecido correspondente por nome + tipo (com FOR UPDATE para
	//    bloquear a linha durante o incremento).
	const selectFabricSQL = `
        SELECT id, quantity FROM fabrics
        WHERE name = $1 AND type = $2
        LIMIT 1 FOR UPDATE`

	now := time.Now().UTC()
	var fabric domain.Fabric

	var fabricID string
	var currentQuantity int
	err = tx.QueryRowContext(ctxTimeout, selectFabricSQL, item.FabricName, item.FabricType).
		Scan(&fabricID, &currentQuantity)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// 3a. Sem correspondente: cria um novo tecido com valores padrão.
		fabric = domain.NewFabricFromTransit(item, userID, now)
		fabric.ID = uuid.NewString()

		const insertFabricSQL = `
            INSERT INTO fabrics (id, name, type, sub_type, supplier, color, price, quantity, min_quantity, created_at, updated_at, created_by, last_modified_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

		if _, err = tx.ExecContext(ctxTimeout, insertFabricSQL,
			fabric.ID, fabric.Name, fabric.Type, fabric.SubType, fabric.Supplier, fabric.Color,
			fabric.Price, fabric.Quantity, fabric.MinQuantity,
			fabric.CreatedAt, fabric.UpdatedAt, fabric.CreatedBy, fabric.LastModifiedBy,
		); err != nil {
			r.logger.Error("Falha ao criar tecido na reconciliação.", err)
			return domain.Fabric{}, apperror.NewDBError("Falha ao criar tecido na reconciliação", err)
		}

	case err != nil:
		r.logger.Error("Falha ao buscar tecido correspondente na reconciliação.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao buscar tecido correspondente", err)

	default:
		// 3b. Correspondente encontrado: incrementa a quantidade e sobrescreve
		//     o fornecedor (last-writer-wins; demais campos intocados).
		const updateFabricSQL = `
            UPDATE fabrics
            SET quantity = quantity + $1, supplier = $2, updated_at = $3, last_modified_by = $4
            WHERE id = $5
            RETURNING id, name, type, sub_type, supplier, color, price, quantity, min_quantity, created_at, updated_at, created_by, last_modified_by`

		fabric, err = scanFabricRow(tx.QueryRowContext(ctxTimeout, updateFabricSQL,
			item.Quantity, item.Supplier, now, userID, fabricID,
		))
		if err != nil {
			r.logger.Error("Falha ao incrementar estoque na reconciliação.", err)
			return domain.Fabric{}, apperror.NewDBError("Falha ao incrementar estoque", err)
		}
	}

	// 4. Remover o item em trânsito na mesma transação.
	if _, err = tx.ExecContext(ctxTimeout, `DELETE FROM in_transit WHERE id = $1`, itemID); err != nil {
		r.logger.Error("Falha ao remover item em trânsito na reconciliação.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao remover item em trânsito", err)
	}

	// 5. Commitar a transação.
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de reconciliação.", commitErr)
		return domain.Fabric{}, apperror.NewDBError("Falha ao commitar transação", commitErr)
	}

	// Invalida o cache-aside do tecido afetado fora da transação.
	r.Cache.Delete(ctxTimeout, fmt.Sprintf("fabric:%s", fabric.ID))

	r.logger.Info("Entrega reconciliada com sucesso.", map[string]interface{}{
		"item_id":      itemID,
		"fabric_id":    fabric.ID,
		"new_quantity": fabric.Quantity,
	})
	return fabric, nil
}

func scanFabricRow(row *sql.Row) (domain.Fabric, error) {
	var f domain.Fabric
	err := row.Scan(
		&f.ID, &f.Name, &f.Type, &f.SubType, &f.Supplier, &f.Color,
		&f.Price, &f.Quantity, &f.MinQuantity,
		&f.CreatedAt, &f.UpdatedAt, &f.CreatedBy, &f.LastModifiedBy,
	)
	return f, err
}
