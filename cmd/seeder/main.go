// Command seeder inserts a development admin and sample employees into the
// users directory and prints an access token for the admin.
//
// Flags:
//
//	--password   password given to every seeded account (default: password123)
//	--employees  number of sample employees to create (default: 5)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/timenest/timenest-backend-go/internal/config"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/pkg/database"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
	"github.com/timenest/timenest-backend-go/internal/repository/postgresql"
)

type seedUser struct {
	Name  string
	Email string
	Role  employee.Role
}

func main() {
	passwordFlag := flag.String("password", "password123", "password for every seeded account")
	employeesFlag := flag.Int("employees", 5, "number of sample employees")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, pool, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*passwordFlag), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := []seedUser{{Name: "Admin", Email: "admin@timenest.local", Role: employee.RoleAdmin}}
	for i := 1; i <= *employeesFlag; i++ {
		users = append(users, seedUser{
			Name:  fmt.Sprintf("Employee %02d", i),
			Email: fmt.Sprintf("employee%02d@timenest.local", i),
			Role:  employee.RoleEmployee,
		})
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	var adminID string
	err = postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		q := postgresql.GetQuerier(ctx, db)
		for _, u := range users {
			query, args, err := psql.Insert("users").
				Columns("id", "name", "email", "password_hash", "role").
				Values(uuid.Must(uuid.NewV7()).String(), u.Name, u.Email, string(hash), string(u.Role)).
				Suffix("ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert for %s: %w", u.Email, err)
			}

			var id string
			if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
				return fmt.Errorf("seed %s: %w", u.Email, err)
			}
			if u.Role == employee.RoleAdmin {
				adminID = id
			}
			slog.Info("seeded user", "email", u.Email, "role", u.Role, "id", id)
		}
		return nil
	})
	if err != nil {
		slog.Error("seed users", "error", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(adminID, users[0].Email, employee.RoleAdmin)
	if err != nil {
		log.Fatalf("generate admin token: %v", err)
	}

	fmt.Printf("Admin token (expires %s):\n%s\n", time.Unix(expiresAt, 0).Format(time.RFC3339), token)
}
