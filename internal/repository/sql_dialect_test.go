package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeAnyByDialect(t *testing.T) {
	condition, args := likeAnyByDialect(dialectSQLite, " PEN ", []string{"name", " ", "description"})
	assert.Equal(t, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, condition)
	assert.Equal(t, []interface{}{"%pen%", "%pen%"}, args)

	condition, args = likeAnyByDialect(dialectPostgres, "Ink", []string{"title"})
	assert.Equal(t, `(title ILIKE ? ESCAPE '\')`, condition)
	assert.Equal(t, []interface{}{"%Ink%"}, args)
}

func TestLikeAnyEscapesWildcards(t *testing.T) {
	_, args := likeAnyByDialect(dialectSQLite, "50%_off", []string{"name"})
	assert.Equal(t, []interface{}{`%50\%\_off%`}, args)
}

func TestDialectOfNil(t *testing.T) {
	assert.Equal(t, dialectSQLite, dialectOf(nil))
}
