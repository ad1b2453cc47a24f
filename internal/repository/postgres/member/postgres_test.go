package member

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	memberdomain "giapha-go/internal/domain/member"
)

type MemberRepoTestSuite struct {
	suite.Suite
	sqlDB *sql.DB
	mock  sqlmock.Sqlmock
	repo  *PostgresRepository
}

func (s *MemberRepoTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: s.sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.repo = NewPostgres(db)
}

func (s *MemberRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.sqlDB.Close()
}

func (s *MemberRepoTestSuite) TestGetByIDFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "members" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "gender", "generation", "birth_order", "parent_id", "spouse_ids"}).
			AddRow("m-1", "Nguyễn Văn Tổ", "male", 1, 1, nil, []byte(`["m-2"]`)))

	member, err := s.repo.GetByID(context.Background(), "m-1")
	s.Require().NoError(err)
	s.Equal("Nguyễn Văn Tổ", member.FullName)
	s.Equal(memberdomain.GenderMale, member.Gender)
	s.Nil(member.ParentID)
	s.Equal([]string{"m-2"}, member.SpouseIDs)
}

func (s *MemberRepoTestSuite) TestGetByIDNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "members" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.repo.GetByID(context.Background(), "missing")
	s.ErrorIs(err, memberdomain.ErrMemberNotFound)
}

func (s *MemberRepoTestSuite) TestListAllOrdersByGenerationAndBirthOrder() {
	s.mock.ExpectQuery(`SELECT \* FROM "members" ORDER BY generation asc, birth_order asc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "generation", "birth_order", "parent_id"}).
			AddRow("r", "Tổ", 1, 1, nil).
			AddRow("a", "Nhất", 2, 1, "r"))

	members, err := s.repo.ListAll(context.Background())
	s.Require().NoError(err)
	s.Len(members, 2)
	s.Require().NotNil(members[1].ParentID)
	s.Equal("r", *members[1].ParentID)
}

func (s *MemberRepoTestSuite) TestListSearchMatchesWildcardsLiterally() {
	pattern := `%50\%\_off%`
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "members" WHERE full_name ILIKE \$1`).
		WithArgs(pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(`SELECT \* FROM "members" WHERE full_name ILIKE \$1 ORDER BY generation asc, birth_order asc, full_name asc`).
		WithArgs(pattern).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "generation", "birth_order"}).
			AddRow("a", "50%_off", 2, 1))

	members, total, err := s.repo.List(context.Background(), memberdomain.ListFilter{Query: "  50%_off "})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Len(members, 1)
}

func (s *MemberRepoTestSuite) TestCountChildren() {
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "members" WHERE parent_id = \$1`).
		WithArgs("r").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := s.repo.CountChildren(context.Background(), "r")
	s.Require().NoError(err)
	s.EqualValues(2, count)
}

func (s *MemberRepoTestSuite) TestCountByIDsEmptySkipsQuery() {
	count, err := s.repo.CountByIDs(context.Background(), nil)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *MemberRepoTestSuite) TestDeleteReportsMissingRow() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`DELETE FROM "members" WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	deleted, err := s.repo.Delete(context.Background(), "missing")
	s.Require().NoError(err)
	s.False(deleted)
}

func TestMemberRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MemberRepoTestSuite))
}
