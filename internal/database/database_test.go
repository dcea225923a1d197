package database

import (
	"testing"

	"vendora/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN("localhost", "5432", "vendora", "secret", "vendora", "require")
	assert.Equal(t, "host=localhost port=5432 user=vendora password=secret dbname=vendora sslmode=require", dsn)
}

func TestPostgresDSN_DefaultsSSLModeToDisable(t *testing.T) {
	dsn := postgresDSN("localhost", "5432", "vendora", "secret", "vendora", "")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestSchemaPolicy_HybridRunsAutoOnlyInDev(t *testing.T) {
	dev := &config.Config{Env: "development", DBSchemaMode: "hybrid"}
	runSQL, runAuto, err := schemaPolicy(dev)
	require.NoError(t, err)
	assert.True(t, runSQL)
	assert.True(t, runAuto)

	prod := &config.Config{Env: "production", DBSchemaMode: "hybrid"}
	runSQL, runAuto, err = schemaPolicy(prod)
	require.NoError(t, err)
	assert.True(t, runSQL)
	assert.False(t, runAuto)
}

func TestSchemaPolicy_BlankModeDefaultsToHybrid(t *testing.T) {
	cfg := &config.Config{Env: "development"}
	runSQL, runAuto, err := schemaPolicy(cfg)
	require.NoError(t, err)
	assert.True(t, runSQL)
	assert.True(t, runAuto)
}

func TestSchemaPolicy_AutoRefusedInProdWithoutOverride(t *testing.T) {
	cfg := &config.Config{Env: "production", DBSchemaMode: "auto"}
	_, _, err := schemaPolicy(cfg)
	require.Error(t, err)

	cfg.DBAutoMigrateAllowDestructive = true
	runSQL, runAuto, err := schemaPolicy(cfg)
	require.NoError(t, err)
	assert.False(t, runSQL)
	assert.True(t, runAuto)
}

func TestSchemaPolicy_RejectsUnknownMode(t *testing.T) {
	cfg := &config.Config{Env: "development", DBSchemaMode: "yolo"}
	_, _, err := schemaPolicy(cfg)
	assert.Error(t, err)
}

func TestRegisteredMigrations_InitPresent(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)

	init := GetMigrationByVersion(1)
	require.NotNil(t, init)
	assert.Equal(t, "init", init.Name)
	assert.Contains(t, init.UpScript, "CREATE TABLE IF NOT EXISTS coupons")
	assert.Contains(t, init.DownScript, "DROP TABLE IF EXISTS coupons")
	assert.Equal(t, "000001_init", init.String())
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "init"}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1}, registered))

	err := validateAppliedVersions([]int{1, 42}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000042")
}
