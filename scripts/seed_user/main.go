// Command seed_user creates an operator account so the API has someone to
// log in as. Intended for local setup and first deploys.
package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/repository"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
	"github.com/lithium-edu/exam-rooms-api/pkg/database"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	name := flag.String("name", "", "full name")
	role := flag.String("role", models.RoleStaff, "account role (admin or staff)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if *role != models.RoleAdmin && *role != models.RoleStaff {
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		Email:        *email,
		PasswordHash: string(hash),
		FullName:     *name,
		Role:         *role,
		Active:       true,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		log.Fatalf("create user: %v", err)
	}
	log.Printf("created %s account %s (%s)", user.Role, user.Email, user.ID)
}
