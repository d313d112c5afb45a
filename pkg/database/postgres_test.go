package database

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/eventshare/eventshare-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "eventshare", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=eventshare sslmode=disable", dsn)
}

func TestIsConstraintViolation(t *testing.T) {
	assert.True(t, IsConstraintViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsConstraintViolation(fmt.Errorf("insert event: %w", &pq.Error{Code: "23502"})))
	assert.False(t, IsConstraintViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsConstraintViolation(fmt.Errorf("boom")))
}
