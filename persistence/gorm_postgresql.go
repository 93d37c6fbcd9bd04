// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bugbash/gameserver/models"
)

// GormPostgreSQL is the GORM-backed implementation of Database.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

type GameRecordModel struct {
	ID        uint                  `gorm:"primaryKey"`
	RoomCode  string                `gorm:"index;not null"`
	Rounds    int                   `gorm:"not null"`
	Winner    string                `gorm:"not null"`
	Reason    string                `gorm:"not null"`
	Players   []models.PlayerResult `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time
}

type PlayerStatModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Games     int    `gorm:"default:0"`
	Wins      int    `gorm:"default:0"`
	Losses    int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&GameRecordModel{},
		&PlayerStatModel{},
	)
}

func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := GameRecordModel{
		RoomCode: record.RoomCode,
		Rounds:   record.Rounds,
		Winner:   record.Winner,
		Reason:   record.Reason,
		Players:  record.Players,
	}
	return p.db.Create(&row).Error
}

func (p *GormPostgreSQL) RecordPlayerResult(name string, won bool) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		var stat PlayerStatModel
		result := tx.Where("name = ?", name).First(&stat)

		if result.Error == gorm.ErrRecordNotFound {
			stat = PlayerStatModel{Name: name}
		} else if result.Error != nil {
			return result.Error
		}

		stat.Games++
		if won {
			stat.Wins++
		} else {
			stat.Losses++
		}
		return tx.Save(&stat).Error
	})
}

func (p *GormPostgreSQL) GetPlayerStats(name string) (*models.PlayerStats, error) {
	var stat PlayerStatModel
	if err := p.db.Where("name = ?", name).First(&stat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.PlayerStats{
		Name:       stat.Name,
		TotalGames: stat.Games,
		Wins:       stat.Wins,
		Losses:     stat.Losses,
	}, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
