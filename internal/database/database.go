package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/01moynul/autoparts-golang/internal/config"
	"github.com/01moynul/autoparts-golang/internal/models"
)

// OpenDB opens the MySQL pool described by cfg and wraps it in gorm.
func OpenDB(cfg config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	sqlDB, err := OpenDBWithDSN(dsn, cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB}), GormConfig(log))
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "open gorm")
	}
	return db, nil
}

// OpenDBWithDSN creates and configures a connection pool for any DSN.
func OpenDBWithDSN(dsn string, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	return db, nil
}

// normalizeDSN makes sure DATETIME columns scan into time.Time and that
// names are stored as full UTF-8 (Cyrillic make and model names).
func normalizeDSN(dsn string) (string, error) {
	c, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", errors.Wrap(err, "parse DB_DSN")
	}
	c.ParseTime = true
	c.Loc = time.UTC
	if !strings.Contains(dsn, "charset=") {
		if err := c.Apply(mysqldriver.Charset("utf8mb4", "")); err != nil {
			return "", errors.Wrap(err, "set charset")
		}
	}
	return c.FormatDSN(), nil
}

// GormConfig is shared by the MySQL connection and the test database.
// Foreign keys are not created: parent/child integrity and cascades are
// handled by the store.
func GormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(zapWriter{log.Sugar()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Migrate creates or updates every table. On MySQL the key columns are
// then switched to a binary collation.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	ddl, err := keyCollationDDL(db)
	if err != nil {
		return err
	}
	for _, q := range ddl {
		if err := db.Exec(q).Error; err != nil {
			return errors.Wrap(err, "set key collation")
		}
	}
	return nil
}

// keyColumns hold normalized keys that the store compares with "=".
// Equality must be byte-wise: the default utf8mb4 collations ignore case
// and accents, which would merge "й" with "и".
var keyColumns = []struct {
	model  any
	fields []string
}{
	{&models.User{}, []string{"Email"}},
	{&models.Category{}, []string{"NameKey"}},
	{&models.Manufacturer{}, []string{"NameKey"}},
	{&models.CarMake{}, []string{"NameKey"}},
	{&models.CarModel{}, []string{"NameKey"}},
	{&models.CarBodyType{}, []string{"NameKey"}},
	{&models.CarEngine{}, []string{"NameKey"}},
	{&models.Product{}, []string{"NameKey", "SKUKey"}},
}

// keyCollationDDL returns one MODIFY statement per key column. Running
// them again is harmless, so Migrate applies them on every start.
func keyCollationDDL(db *gorm.DB) ([]string, error) {
	var out []string
	for _, kc := range keyColumns {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(kc.model); err != nil {
			return nil, errors.Wrapf(err, "parse %T", kc.model)
		}
		for _, name := range kc.fields {
			f := stmt.Schema.LookUpField(name)
			if f == nil {
				return nil, errors.Errorf("%T has no field %s", kc.model, name)
			}
			null := "NULL"
			if f.NotNull {
				null = "NOT NULL"
			}
			out = append(out, fmt.Sprintf("ALTER TABLE `%s` MODIFY `%s` VARCHAR(%d) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin %s",
				stmt.Schema.Table, f.DBName, f.Size, null))
		}
	}
	return out, nil
}

type zapWriter struct {
	s *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...any) {
	w.s.Warnf(format, args...)
}
