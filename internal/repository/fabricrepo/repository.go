package fabricrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/logger"
)

// Chave de cache para tecidos individuais (cache-aside).
const fabricCacheKey = "fabric:%s"

// FabricRepository implementa o contrato de persistência de tecidos sobre
// PostgreSQL, com cache-aside em Redis para leituras por ID.
type FabricRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	CacheTTL  time.Duration
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewFabricRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewFabricRepository(db *sql.DB, cacheClient cache.Client, cacheTTL, dbTimeout time.Duration, logger logger.Logger) *FabricRepository {
	return &FabricRepository{
		DB:        db,
		Cache:     cacheClient,
		CacheTTL:  cacheTTL,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const fabricColumns = `id, name, type, sub_type, supplier, color, price, quantity, min_quantity, created_at, updated_at, created_by, last_modified_by`

func scanFabric(row interface{ Scan(...interface{}) error }) (domain.Fabric, error) {
	var f domain.Fabric
	err := row.Scan(
		&f.ID, &f.Name, &f.Type, &f.SubType, &f.Supplier, &f.Color,
		&f.Price, &f.Quantity, &f.MinQuantity,
		&f.CreatedAt, &f.UpdatedAt, &f.CreatedBy, &f.LastModifiedBy,
	)
	return f, err
}

// Save persiste um novo tecido no banco de dados.
func (r *FabricRepository) Save(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error) {
	r.logger.Debug("Iniciando Save de tecido no repositório.", map[string]interface{}{"name": fabric.Name, "type": fabric.Type})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
        INSERT INTO fabrics (` + fabricColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		fabric.ID, fabric.Name, fabric.Type, fabric.SubType, fabric.Supplier, fabric.Color,
		fabric.Price, fabric.Quantity, fabric.MinQuantity,
		fabric.CreatedAt, fabric.UpdatedAt, fabric.CreatedBy, fabric.LastModifiedBy,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir tecido no DB.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao inserir tecido", err)
	}

	r.logger.Info("Tecido salvo com sucesso no repositório.", map[string]interface{}{"id": fabric.ID, "name": fabric.Name})
	return fabric, nil
}

// FindByID busca um tecido pelo ID, utilizando a estratégia Cache-Aside.
func (r *FabricRepository) FindByID(ctx context.Context, id string) (domain.Fabric, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(fabricCacheKey, id)
	var fabric domain.Fabric

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &fabric) == nil {
			return fabric, nil
		}
		// Se a desserialização falhar, continua para o DB
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (ex: conexão perdida): logamos, mas continuamos.
		r.logger.Warn("Falha ao ler tecido do cache.", map[string]interface{}{"id": id, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `SELECT ` + fabricColumns + ` FROM fabrics WHERE id = $1`
	fabric, err = scanFabric(r.DB.QueryRowContext(ctxTimeout, query, id))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fabric{}, apperror.NewNotFoundError(fmt.Sprintf("Tecido com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar tecido no DB.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao buscar tecido", err)
	}

	// 3. Popula o cache para futuras requisições (Cache-Aside WRITE).
	if fabricJSON, marshalErr := json.Marshal(fabric); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, fabricJSON, r.CacheTTL)
	}

	return fabric, nil
}

// FindAll retorna todos os tecidos cadastrados, ordenados por nome.
// A filtragem de busca é aplicada em memória pela camada de Serviço,
// preservando o comportamento de filtragem do lado do cliente.
func (r *FabricRepository) FindAll(ctx context.Context) ([]domain.Fabric, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + fabricColumns + ` FROM fabrics ORDER BY name, type`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar tecidos no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar tecidos", err)
	}
	defer rows.Close()

	fabrics := make([]domain.Fabric, 0)
	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear linha de tecido.", err)
			return nil, apperror.NewDBError("Falha ao mapear tecido", err)
		}
		fabrics = append(fabrics, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer tecidos", err)
	}

	return fabrics, nil
}

// Update sobrescreve os campos mutáveis de um tecido existente.
// Os campos de criação (created_at, created_by) nunca são alterados.
func (r *FabricRepository) Update(ctx context.Context, fabric domain.Fabric) (domain.Fabric, error) {
	r.logger.Debug("Iniciando Update de tecido no repositório.", map[string]interface{}{"id": fabric.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `
        UPDATE fabrics
        SET name = $1, type = $2, sub_type = $3, supplier = $4, color = $5,
            price = $6, quantity = $7, min_quantity = $8,
            updated_at = $9, last_modified_by = $10
        WHERE id = $11
        RETURNING ` + fabricColumns

	updated, err := scanFabric(r.DB.QueryRowContext(ctxTimeout, updateSQL,
		fabric.Name, fabric.Type, fabric.SubType, fabric.Supplier, fabric.Color,
		fabric.Price, fabric.Quantity, fabric.MinQuantity,
		fabric.UpdatedAt, fabric.LastModifiedBy,
		fabric.ID,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fabric{}, apperror.NewNotFoundError(fmt.Sprintf("Tecido com ID %s não existe na base de dados.", fabric.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar tecido no DB.", err)
		return domain.Fabric{}, apperror.NewDBError("Falha ao atualizar tecido", err)
	}

	// Invalida o cache-aside: a próxima leitura repopulará com o dado novo.
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(fabricCacheKey, fabric.ID))

	r.logger.Info("Tecido atualizado com sucesso.", map[string]interface{}{"id": updated.ID, "quantity": updated.Quantity})
	return updated, nil
}

// Delete remove definitivamente um tecido.
func (r *FabricRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de tecido no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM fabrics WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir tecido no DB.", err)
		return apperror.NewDBError("Falha ao excluir tecido", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Tecido com ID %s não existe na base de dados.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(fabricCacheKey, id))

	r.logger.Info("Tecido excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}
