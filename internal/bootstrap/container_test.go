package bootstrap

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/slyt3/pagedrop/internal/infra/blob"
	"github.com/slyt3/pagedrop/internal/infra/mq"
	"github.com/slyt3/pagedrop/internal/modules/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBuildContainer_Defaults(t *testing.T) {
	t.Setenv("APP_DATABASE_DSN", "file:bootstrap?mode=memory&cache=shared&_foreign_keys=on")
	t.Setenv("APP_LOG_LEVEL", "error")

	inj := BuildContainer()

	d, err := do.Invoke[*gorm.DB](inj)
	require.NoError(t, err)
	sqlDB, err := d.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.True(t, d.Migrator().HasTable("projects"))

	rdb, err := do.Invoke[*redis.Client](inj)
	require.NoError(t, err)
	assert.Nil(t, rdb)

	pub, err := do.Invoke[mq.Publisher](inj)
	require.NoError(t, err)
	assert.IsType(t, mq.NoopPublisher{}, pub)

	archive, err := do.Invoke[blob.Archiver](inj)
	require.NoError(t, err)
	assert.IsType(t, blob.Noop{}, archive)

	_, err = do.Invoke[*handler.ProjectHandler](inj)
	assert.NoError(t, err)
	_, err = do.Invoke[*handler.DeliveryHandler](inj)
	assert.NoError(t, err)
}
