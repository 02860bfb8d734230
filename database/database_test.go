package database_test

import (
	"testing"

	config "github.com/anjiri1684/spacehub/configs"
	"github.com/anjiri1684/spacehub/database"
	"github.com/anjiri1684/spacehub/database/dbtest"
	"github.com/anjiri1684/spacehub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminCreatesIdentityOnce(t *testing.T) {
	db := dbtest.Open(t)
	settings := config.Settings{AdminEmail: "root@spacehub.io", AdminPassword: "secret123", AdminFullName: "Root"}

	require.NoError(t, database.SeedAdmin(db, settings))
	require.NoError(t, database.SeedAdmin(db, settings))

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("secret123")))

	var identity models.Identity
	require.NoError(t, db.First(&identity, "id = ?", admins[0].ID).Error)
	assert.Equal(t, models.KindAdmin, identity.Kind)
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.SeedAdmin(db, config.Settings{}))

	var count int64
	db.Model(&models.Admin{}).Count(&count)
	assert.Zero(t, count)
}

func TestSeedPlansIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.SeedPlans(db))
	require.NoError(t, database.SeedPlans(db))

	var count int64
	db.Model(&models.Plan{}).Count(&count)
	assert.EqualValues(t, 2, count)
}
