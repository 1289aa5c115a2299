package catalog

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSchema = `
CREATE TABLE courses (
	id text PRIMARY KEY,
	title text NOT NULL,
	description text NOT NULL,
	price numeric NOT NULL,
	image text,
	workload text,
	enroll_url text,
	is_active boolean NOT NULL DEFAULT true,
	created_at datetime,
	updated_at datetime
);
CREATE TABLE products (
	id text PRIMARY KEY,
	name text NOT NULL,
	description text NOT NULL,
	price numeric NOT NULL,
	image text,
	is_active boolean NOT NULL DEFAULT true,
	created_at datetime,
	updated_at datetime
);
CREATE TABLE publications (
	id text PRIMARY KEY,
	title text NOT NULL,
	abstract text NOT NULL,
	authors text NOT NULL,
	journal text,
	year integer,
	doi text,
	url text,
	created_at datetime,
	updated_at datetime
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	for _, stmt := range strings.Split(testSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}
	return conn
}
