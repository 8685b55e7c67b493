package main

import (
	"log"
	"os"
	"time"

	"notifhub-be/internal/model"
	"notifhub-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding System Roles...")

	// System roles cannot be deleted or deactivated once created.
	roles := []model.UserRole{
		{
			Name:        "admin",
			DisplayName: "Administrator",
			Description: "Full access to user, role and notification management",
			Level:       100,
			Permissions: datatypes.JSONSlice[string]{
				"admin.access",
				"users.read", "users.write", "users.delete",
				"roles.read", "roles.write", "roles.assign",
				"notifications.send", "notifications.broadcast", "notifications.cleanup",
			},
			IsSystem: true,
			IsActive: true,
		},
		{
			Name:        "moderator",
			DisplayName: "Moderator",
			Description: "Can review users and send announcements",
			Level:       50,
			Permissions: datatypes.JSONSlice[string]{
				"users.read",
				"notifications.send", "notifications.broadcast",
			},
			IsSystem: true,
			IsActive: true,
		},
		{
			Name:        "user",
			DisplayName: "User",
			Description: "Default role for registered accounts",
			Level:       10,
			Permissions: datatypes.JSONSlice[string]{
				"profile.read", "profile.write",
				"notifications.read",
			},
			IsSystem: true,
			IsActive: true,
		},
	}

	for _, r := range roles {
		// Check if role with this name already exists
		var existing model.UserRole
		if err := db.Where("name = ?", r.Name).First(&existing).Error; err == nil {
			log.Printf("Role '%s' already exists, skipping...", r.Name)
			continue
		}

		if err := db.Create(&r).Error; err != nil {
			log.Printf("Error creating role '%s': %v", r.Name, err)
		} else {
			log.Printf("Created role: %s (%s)", r.DisplayName, r.Name)
		}
	}

	log.Println("Role seeding completed!")

	log.Println("Seeding Admin Account...")
	seedAdminAccount(db)

	log.Println("Seeding Notification Templates...")
	SeedNotificationTemplates(db)
}

func seedAdminAccount(db *gorm.DB) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@notifhub.local"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "ChangeMe123!"
		log.Println("Warn: ADMIN_PASSWORD not set, seeding with the default password")
	}

	var admin model.User
	if err := db.Where("email = ?", adminEmail).First(&admin).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Error: Failed to hash admin password:", err)
		}
		hashStr := string(hash)
		now := time.Now()
		admin = model.User{
			Email:           adminEmail,
			PasswordHash:    &hashStr,
			FullName:        "System Administrator",
			Status:          "active",
			EmailVerified:   true,
			EmailVerifiedAt: &now,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("Error: Failed to create admin account:", err)
		}
		log.Printf("Created admin account: %s", adminEmail)
	} else {
		log.Printf("Admin account '%s' already exists, skipping...", adminEmail)
	}

	var adminRole model.UserRole
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		log.Fatal("Error: admin role missing, run role seeding first:", err)
	}

	var assignment model.UserRoleAssignment
	err := db.Where("user_id = ? AND role_id = ? AND is_active = ?", admin.Id, adminRole.Id, true).
		First(&assignment).Error
	if err == nil {
		return
	}

	assignment = model.UserRoleAssignment{
		UserId:   admin.Id,
		RoleId:   adminRole.Id,
		IsActive: true,
	}
	if err := db.Create(&assignment).Error; err != nil {
		log.Fatal("Error: Failed to assign admin role:", err)
	}
	log.Println("Assigned 'admin' role to the admin account")
}
