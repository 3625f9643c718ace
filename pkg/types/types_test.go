package types

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type baseModelRecord struct {
	BaseModel
	Label string
}

func TestBaseModelMigratesAndAssignsID(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	// The ID column must carry no database-side default so the schema
	// migrates on any dialect.
	require.NoError(t, db.AutoMigrate(&baseModelRecord{}))

	record := baseModelRecord{Label: "first"}
	require.NoError(t, db.Create(&record).Error)
	assert.NotEqual(t, uuid.Nil, record.ID)

	preset := baseModelRecord{Label: "second"}
	preset.ID = uuid.New()
	want := preset.ID
	require.NoError(t, db.Create(&preset).Error)
	assert.Equal(t, want, preset.ID)
}

func TestMoneyMinorUnits(t *testing.T) {
	assert.Equal(t, int64(49900), NewMoney(499).MinorUnits())
	assert.Equal(t, int64(49950), NewMoney(499.50).MinorUnits())
	assert.Equal(t, int64(0), NewMoney(0).MinorUnits())

	// Sub-paisa amounts round to the nearest unit.
	assert.Equal(t, int64(10), NewMoney(0.095).MinorUnits())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(NewMoney(1299.99))
	require.NoError(t, err)

	var m Money
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, int64(129999), m.MinorUnits())
}
