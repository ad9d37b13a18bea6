package database

import (
	"testing"

	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/stretchr/testify/assert"
)

func TestOpen_RequiresDSN(t *testing.T) {
	db, err := Open(config.DatabaseSettings{})

	assert.Nil(t, db)
	assert.True(t, errs.IsEnvironmentVariableError(err))
}

func TestNew_BuildsEveryRepo(t *testing.T) {
	d := New(nil)

	assert.NotNil(t, d.PhotoRepo())
	assert.NotNil(t, d.TagRepo())
	assert.NotNil(t, d.PhotoTagRepo())
	assert.NotNil(t, d.UserRepo())
}
