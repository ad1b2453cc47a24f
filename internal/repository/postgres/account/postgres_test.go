package account

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accountdomain "giapha-go/internal/domain/account"
)

type AccountRepoTestSuite struct {
	suite.Suite
	sqlDB *sql.DB
	mock  sqlmock.Sqlmock
	repo  *PostgresRepository
}

func (s *AccountRepoTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: s.sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.repo = NewPostgres(db)
}

func (s *AccountRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.sqlDB.Close()
}

func (s *AccountRepoTestSuite) TestGetByUsernameFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "display_name", "role", "active"}).
			AddRow("a-1", "truongtoc", "hash", "Trưởng tộc", "admin", true))

	account, err := s.repo.GetByUsername(context.Background(), "truongtoc")
	s.Require().NoError(err)
	s.Equal(accountdomain.RoleAdmin, account.Role)
	s.True(account.Active)
}

func (s *AccountRepoTestSuite) TestGetByUsernameNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE username = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.repo.GetByUsername(context.Background(), "missing")
	s.ErrorIs(err, accountdomain.ErrAccountNotFound)
}

func (s *AccountRepoTestSuite) TestCountActiveAdmins() {
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "accounts" WHERE role = \$1 AND active = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := s.repo.CountActiveAdmins(context.Background())
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *AccountRepoTestSuite) TestTouchLogin() {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "accounts" SET "last_login_at"=\$1 WHERE id = \$2`).
		WithArgs(at, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.TouchLogin(context.Background(), "a-1", at))
}

func (s *AccountRepoTestSuite) TestIsUniqueViolation() {
	s.True(isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	s.True(isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	s.False(isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	s.False(isUniqueViolation(nil))
}

func TestAccountRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AccountRepoTestSuite))
}
