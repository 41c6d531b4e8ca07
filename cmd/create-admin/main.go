package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"brightonhub/backend/internal/auth"
	"brightonhub/backend/internal/config"
	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/memory"
	sqlstore "brightonhub/backend/internal/storage/sql"
)

// 创建管理员账户。数据库配置来自环境变量，未配置时写入内存存储（仅供演示）。
func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: create-admin <email> <password> <name> [super|admin]")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]
	name := os.Args[3]
	role := domain.RoleAdmin
	if len(os.Args) >= 5 && os.Args[4] == "super" {
		role = domain.RoleSuper
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var store storage.Store
	if cfg.Database.Driver != "" {
		store, err = sqlstore.NewStore(sqlstore.Config{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		})
		if err != nil {
			fmt.Printf("Failed to connect database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	} else {
		store = memory.NewStore()
	}

	if !domain.ValidEmail(email) {
		fmt.Println("Invalid email format")
		os.Exit(1)
	}

	if err := auth.ValidatePassword(password); err != nil {
		fmt.Printf("Invalid password: %v\n", err)
		os.Exit(1)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.CreateUser(user); err != nil {
		fmt.Printf("Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Admin user created successfully!\n")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Name:  %s\n", user.Name)
	fmt.Printf("  Role:  %s\n", user.Role)
	if cfg.Database.Driver == "" {
		fmt.Println("\nNote: no database configured, the user exists only in this process's memory.")
	}
}
