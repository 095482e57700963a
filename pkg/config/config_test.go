package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "General", cfg.Import.DefaultDepartment)
	assert.Equal(t, 12, cfg.Import.DefaultValidityMonths)
	assert.Equal(t, 30, cfg.Reminder.WindowDays)
	assert.Equal(t, "postgres://postgres:@localhost:5432/certificaciones?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_DatabaseURLTienePrioridad(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_EnterosDesdeString(t *testing.T) {
	v := viper.New()
	v.Set("IMPORT_DEFAULT_VALIDITY_MONTHS", "24")
	v.Set("STORE_DRIVER", "MONGO")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Import.DefaultValidityMonths)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "redis")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_TransaccionesMongo(t *testing.T) {
	v := viper.New()
	v.Set("MONGO_TRANSACTIONS", "true")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.True(t, cfg.Mongo.Transactions)

	cfg, err = fromViper(viper.New())
	require.NoError(t, err)
	assert.False(t, cfg.Mongo.Transactions)
}
