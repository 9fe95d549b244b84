package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Document is one stored key/value pair.
type Document struct {
	Key       string `gorm:"column:doc_key;primaryKey;size:191"`
	Value     []byte `gorm:"column:doc_value;not null"`
	UpdatedAt time.Time
}

func (d *Document) TableName() string {
	return "documents"
}

// GormDocuments stores documents in a SQL table. Several instances can share
// a database by using different tables (documents, secrets).
type GormDocuments struct {
	db    *gorm.DB
	table string
}

func NewGormDocuments(db *gorm.DB, table string) (*GormDocuments, error) {
	if table == "" {
		table = (&Document{}).TableName()
	}
	if err := db.Table(table).AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", table, err)
	}
	return &GormDocuments{db: db, table: table}, nil
}

func (g *GormDocuments) Get(ctx context.Context, key string) ([]byte, error) {
	var doc Document
	err := g.db.WithContext(ctx).
		Table(g.table).
		Where("doc_key = ?", key).
		Take(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

func (g *GormDocuments) Put(ctx context.Context, key string, value []byte) error {
	doc := Document{Key: key, Value: value, UpdatedAt: time.Now()}
	return g.db.WithContext(ctx).
		Table(g.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"doc_value", "updated_at"}),
		}).
		Create(&doc).Error
}

// OpenDatabase opens the SQL database backing the document tables.
// driver is one of sqlite, postgres or mysql.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: conn})
	case "mysql":
		cfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dialector = mysql.New(mysql.Config{DSN: cfg.FormatDSN()})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", driver, err)
	}
	return db, nil
}
