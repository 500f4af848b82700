package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prospectlab/prospect/internal/database"
	"github.com/prospectlab/prospect/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var name, image, job, company, product, description, sellingPoint *string

	err := scanner.Scan(
		&user.ID, &name, &user.Email, &user.EmailVerified, &image,
		&job, &company, &product, &description, &sellingPoint,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if name != nil {
		user.Name = *name
	}
	if image != nil {
		user.Image = *image
	}
	if job != nil {
		user.Job = *job
	}
	if company != nil {
		user.Company = *company
	}
	if product != nil {
		user.Product = *product
	}
	if description != nil {
		user.Description = *description
	}
	if sellingPoint != nil {
		user.SellingPoint = *sellingPoint
	}

	return &user, nil
}

const userColumns = `id, name, email, email_verified, image, job, company, product, description, selling_point`

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUserRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUserRow(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, name, email, email_verified, image, job, company, product, description, selling_point)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns + `
	`

	created, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.EmailVerified, user.Image,
		user.Job, user.Company, user.Product, user.Description, user.SellingPoint,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies a partial update; nil fields keep their current value.
func (r *UserRepository) Update(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	query := `
		UPDATE users SET
			name          = COALESCE($1, name),
			email         = COALESCE($2, email),
			job           = COALESCE($3, job),
			company       = COALESCE($4, company),
			product       = COALESCE($5, product),
			description   = COALESCE($6, description),
			selling_point = COALESCE($7, selling_point)
		WHERE id = $8
		RETURNING ` + userColumns + `
	`

	updated, err := scanUserRow(r.pool.QueryRow(ctx, query,
		update.Name, update.Email, update.Job, update.Company,
		update.Product, update.Description, update.SellingPoint, id,
	))
	if err != nil {
		return nil, err
	}

	return updated, nil
}
