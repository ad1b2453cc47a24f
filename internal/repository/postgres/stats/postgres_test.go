package stats

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	statsdomain "giapha-go/internal/domain/stats"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewPostgres(db), mock
}

func TestMemberTotals(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM members`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "living", "deceased", "male", "female"}).
			AddRow(10, 7, 3, 6, 4))

	totals, err := repo.MemberTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, statsdomain.MemberTotals{Total: 10, Living: 7, Deceased: 3, Male: 6, Female: 4}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerationCounts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT generation, COUNT\(\*\) AS count FROM members GROUP BY generation`).
		WillReturnRows(sqlmock.NewRows([]string{"generation", "count"}).
			AddRow(1, 1).
			AddRow(2, 3))

	rows, err := repo.GenerationCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []statsdomain.GenerationCount{{Generation: 1, Count: 1}, {Generation: 2, Count: 3}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentCounts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM news_posts WHERE deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"posts", "albums", "photos", "condolences"}).
			AddRow(4, 2, 17, 5))

	counts, err := repo.ContentCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, statsdomain.ContentCounts{Posts: 4, Albums: 2, Photos: 17, Condolences: 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
