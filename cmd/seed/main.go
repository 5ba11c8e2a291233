// Command seed migrates the schema and loads demo data for local
// development.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gridfan/paddock/internal/db"
	"github.com/gridfan/paddock/internal/models"
	"github.com/gridfan/paddock/pkg/config"
	"github.com/gridfan/paddock/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&models.Profile{},
		&models.Thread{},
		&models.Repost{},
		&models.Reply{},
		&models.RepostReply{},
		&models.Like{},
		&models.Bookmark{},
		&models.Follow{},
	); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
	logger.Info("Schema migrated")

	if err := seed(database); err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
	logger.Info("Demo data loaded")
}

func seed(database *db.DB) error {
	now := time.Now().UTC()

	profiles := []models.Profile{
		{UserID: "11111111-1111-1111-1111-111111111111", Username: "blisterwatch", FavoriteTeam: "McLaren", CreatedAt: now},
		{UserID: "22222222-2222-2222-2222-222222222222", Username: "drs_enjoyer", FavoriteTeam: "Red Bull", CreatedAt: now},
		{UserID: "33333333-3333-3333-3333-333333333333", Username: "boxbox", FavoriteTeam: "Ferrari", CreatedAt: now},
	}
	if err := database.Create(&profiles).Error; err != nil {
		return err
	}

	threads := []models.Thread{
		{UserID: profiles[0].UserID, Content: "That undercut was a masterclass. Pit wall earned their salary today.", CreatedAt: now.Add(-3 * time.Hour)},
		{UserID: profiles[1].UserID, Content: "Hards until lap 40 and the tyres still alive. What are these compounds made of", CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: profiles[2].UserID, Content: "Quali mode ON", CreatedAt: now.Add(-1 * time.Hour)},
	}
	if err := database.Create(&threads).Error; err != nil {
		return err
	}

	reposts := []models.Repost{
		{UserID: profiles[2].UserID, ThreadID: threads[0].ID, Content: "This aged well", CreatedAt: now.Add(-90 * time.Minute)},
	}
	if err := database.Create(&reposts).Error; err != nil {
		return err
	}

	likes := []models.Like{
		{UserID: profiles[1].UserID, ThreadID: sql.NullInt64{Int64: threads[0].ID, Valid: true}, CreatedAt: now},
		{UserID: profiles[2].UserID, ThreadID: sql.NullInt64{Int64: threads[0].ID, Valid: true}, CreatedAt: now},
		{UserID: profiles[0].UserID, RepostID: sql.NullInt64{Int64: reposts[0].ID, Valid: true}, CreatedAt: now},
	}
	if err := database.Create(&likes).Error; err != nil {
		return err
	}

	follows := []models.Follow{
		{FollowerID: profiles[0].UserID, FollowingID: profiles[1].UserID, CreatedAt: now},
		{FollowerID: profiles[0].UserID, FollowingID: profiles[2].UserID, CreatedAt: now},
	}
	if err := database.Create(&follows).Error; err != nil {
		return err
	}

	bookmarks := []models.Bookmark{
		{UserID: profiles[0].UserID, ThreadID: threads[1].ID, CreatedAt: now},
	}
	return database.Create(&bookmarks).Error
}
