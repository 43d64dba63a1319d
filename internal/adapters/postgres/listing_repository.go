package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

const listingColumns = `id, nombre, email_contacto, actividad, sector, pais, ubicacion, descripcion,
	facturacion, num_empleados, local_propiedad, resultado_antes_impuestos, deuda, precio_venta,
	COALESCE(imagen, '')`

// ListingRepository - реализация ListingRepositoryPort для PostgreSQL.
// Каждая операция берет соединение из пула и возвращает его на любом пути выхода.
type ListingRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewListingRepository(pool *pgxpool.Pool, queryTimeout time.Duration) (*ListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &ListingRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
	}, nil
}

// withConn ограничивает операцию таймаутом и держит соединение ровно на время fn
func (r *ListingRepository) withConn(ctx context.Context, fn func(ctx context.Context, conn *pgxpool.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer conn.Release()

	return fn(ctx, conn)
}

// Create вставляет объявление и возвращает присвоенный id.
func (r *ListingRepository) Create(ctx context.Context, fields domain.ListingFields, image string) (int64, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingRepository",
		"method":    "Create",
	})

	query := `INSERT INTO empresas (nombre, email_contacto, actividad, sector, pais, ubicacion, descripcion,
		facturacion, num_empleados, local_propiedad, resultado_antes_impuestos, deuda, precio_venta, imagen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	var id int64
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query,
			fields.Name, fields.ContactEmail, fields.Activity, fields.Sector, fields.Country,
			fields.Location, fields.Description, fields.Revenue, fields.Employees,
			string(fields.PropertyStatus), fields.ProfitBeforeTax, fields.Debt, fields.SalePrice, image,
		).Scan(&id)
	})
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return 0, storeError("failed to create listing", err)
	}

	repoLogger.Debug("Listing inserted.", port.Fields{"listing_id": id})
	return id, nil
}

// FindWithFilter возвращает объявления, подходящие под фильтр, в порядке id.
func (r *ListingRepository) FindWithFilter(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ListingRepository",
		"method":    "FindWithFilter",
	})

	whereClause, args := applyFilter(filter)
	query := fmt.Sprintf(`SELECT %s FROM empresas %s ORDER BY id`, listingColumns, whereClause)

	listings := make([]domain.Listing, 0)
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			l, err := scanListing(rows)
			if err != nil {
				return err
			}
			listings = append(listings, *l)
		}
		return rows.Err()
	})
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"where": whereClause})
		return nil, storeError("failed to find listings", err)
	}

	repoLogger.Debug("Listings fetched.", port.Fields{"count": len(listings)})
	return listings, nil
}

// GetByID возвращает domain.ErrListingNotFound, если объявления нет.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingRepository",
		"method":     "GetByID",
		"listing_id": id,
	})

	query := fmt.Sprintf(`SELECT %s FROM empresas WHERE id = $1`, listingColumns)

	var listing *domain.Listing
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		listing, err = scanListing(conn.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Warn("Listing not found.", nil)
			return nil, domain.ErrListingNotFound
		}
		repoLogger.Error("Failed to get listing", err, nil)
		return nil, storeError("failed to get listing", err)
	}
	return listing, nil
}

// Update перезаписывает поля объявления. При image == nil колонка imagen не трогается.
func (r *ListingRepository) Update(ctx context.Context, id int64, fields domain.ListingFields, image *string) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingRepository",
		"method":     "Update",
		"listing_id": id,
	})

	query := `UPDATE empresas SET nombre = $1, email_contacto = $2, actividad = $3, sector = $4, pais = $5,
		ubicacion = $6, descripcion = $7, facturacion = $8, num_empleados = $9, local_propiedad = $10,
		resultado_antes_impuestos = $11, deuda = $12, precio_venta = $13`
	args := []interface{}{
		fields.Name, fields.ContactEmail, fields.Activity, fields.Sector, fields.Country,
		fields.Location, fields.Description, fields.Revenue, fields.Employees,
		string(fields.PropertyStatus), fields.ProfitBeforeTax, fields.Debt, fields.SalePrice,
	}
	if image != nil {
		args = append(args, *image)
		query += fmt.Sprintf(", imagen = $%d", len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	var tag pgconn.CommandTag
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		tag, err = conn.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		repoLogger.Error("Failed to update listing", err, nil)
		return false, storeError("failed to update listing", err)
	}

	found := tag.RowsAffected() > 0
	repoLogger.Debug("Update executed.", port.Fields{"found": found, "image_replaced": image != nil})
	return found, nil
}

// Delete удаляет объявление. Отсутствие строки не считается ошибкой.
func (r *ListingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingRepository",
		"method":     "Delete",
		"listing_id": id,
	})

	var tag pgconn.CommandTag
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		var err error
		tag, err = conn.Exec(ctx, `DELETE FROM empresas WHERE id = $1`, id)
		return err
	})
	if err != nil {
		repoLogger.Error("Failed to delete listing", err, nil)
		return false, storeError("failed to delete listing", err)
	}

	found := tag.RowsAffected() > 0
	repoLogger.Debug("Delete executed.", port.Fields{"found": found})
	return found, nil
}

func (r *ListingRepository) Ping(ctx context.Context) error {
	err := r.withConn(ctx, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.Ping(ctx)
	})
	if err != nil {
		return storeError("ping failed", err)
	}
	return nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var (
		l              domain.Listing
		propertyStatus string
	)
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.ContactEmail,
		&l.Activity,
		&l.Sector,
		&l.Country,
		&l.Location,
		&l.Description,
		&l.Revenue,
		&l.Employees,
		&propertyStatus,
		&l.ProfitBeforeTax,
		&l.Debt,
		&l.SalePrice,
		&l.Image,
	)
	if err != nil {
		return nil, err
	}
	l.PropertyStatus = domain.PropertyStatus(propertyStatus)
	return &l, nil
}

// storeError отделяет отказ базы выполнить запрос от недоступности самого хранилища.
func storeError(msg string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: store rejected statement (sqlstate %s): %w", msg, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w: %v", msg, domain.ErrStoreUnavailable, err)
}
