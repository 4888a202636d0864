package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"estatedesk/internal/config"
	"estatedesk/internal/db"
	"estatedesk/internal/model"
	"estatedesk/internal/repository"
)

// Seeds a demo data set: one admin, one builder with listings in each
// moderation state, and one buyer. Safe to re-run; existing emails are skipped.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.PendingAccount{},
		&model.Property{},
		&model.Lead{},
		&model.SiteVisit{},
		&model.Notification{},
		&model.Favorite{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	repos := repository.NewRepositories(gormDB)
	ctx := context.Background()

	admin := seedUser(ctx, repos, &model.User{
		Name:        "Demo Admin",
		Email:       "admin@estatedesk.local",
		Mobile:      "9000000001",
		Role:        model.RoleAdmin,
		Status:      model.UserStatusActive,
		SecurityKey: "demo-admin-key",
	}, "admin1234")

	builder := seedUser(ctx, repos, &model.User{
		Name:         "Demo Builder",
		Email:        "builder@estatedesk.local",
		Mobile:       "9000000002",
		Role:         model.RoleBuilder,
		Status:       model.UserStatusActive,
		PropertyType: "residential",
		LookingTo:    "sell",
		ProjectName:  "Lakeview Residency",
	}, "builder1234")

	seedUser(ctx, repos, &model.User{
		Name:   "Demo Buyer",
		Email:  "buyer@estatedesk.local",
		Mobile: "9000000003",
		Role:   model.RoleBuyer,
		Status: model.UserStatusActive,
	}, "buyer1234")

	if builder != nil {
		seedProperty(ctx, repos, builder, "Lakeview 2BHK", "sell", model.PropertyStatusApproved, "4500000")
		seedProperty(ctx, repos, builder, "Lakeview 3BHK", "sell", model.PropertyStatusPending, "6200000")
		seedProperty(ctx, repos, builder, "City Center Office", "lease", model.PropertyStatusApproved, "85000")
	}

	if admin != nil {
		log.Printf("seed complete; admin security key: %s", admin.SecurityKey)
	}
}

func seedUser(ctx context.Context, repos *repository.Repositories, user *model.User, password string) *model.User {
	if existing, err := repos.Users.FindByEmail(ctx, user.Email); err == nil && existing != nil {
		log.Printf("user %s already exists, skipping", user.Email)
		return existing
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	user.PasswordHash = string(hashed)

	if err := repos.Users.Create(ctx, user); err != nil {
		log.Fatalf("create user %s: %v", user.Email, err)
	}
	log.Printf("created %s (%s)", user.Email, user.Role)
	return user
}

func seedProperty(ctx context.Context, repos *repository.Repositories, builder *model.User, title, listingType string, status model.PropertyStatus, price string) {
	property := &model.Property{
		BuilderID:   builder.ID,
		Title:       title,
		Description: "Seeded demo listing.",
		Price:       decimal.RequireFromString(price),
		Area:        1200,
		AreaUnit:    "sqft",
		Location:    "Demo City",
		Address:     "42 Demo Street",
		Type:        "residential",
		Subtype:     "apartment",
		ListingType: model.ListingType(listingType),
		Status:      status,
		Amenities:   model.StringList{"parking", "lift"},
	}
	if err := repos.Properties.Create(ctx, property); err != nil {
		log.Fatalf("create property %s: %v", title, err)
	}
	log.Printf("created property %q (%s, %s)", title, listingType, status)
}
