package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo OrderRepository
	ctx  context.Context
	date time.Time
}

func (s *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.repo = NewOrderRepo(mock)
	s.ctx = context.Background()
	s.date = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
}

func (s *OrderRepoTestSuite) TearDownTest() {
	s.mock.Close()
}

func (s *OrderRepoTestSuite) TestNextDailyNumberFirstOrderOfTheDay() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_counters")).
		WithArgs("2026-08-31").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(1))

	number, err := s.repo.NextDailyNumber(s.ctx, s.mock, s.date)

	s.Require().NoError(err)
	s.Equal(1, number)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestNextDailyNumberIncrementsCounter() {
	s.mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (order_date) DO UPDATE SET last_number = daily_counters.last_number + 1")).
		WithArgs("2026-08-31").
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(7))

	number, err := s.repo.NextDailyNumber(s.ctx, s.mock, s.date)

	s.Require().NoError(err)
	s.Equal(7, number)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestCreateInsertsOrderRow() {
	order := &models.Order{
		ID:               uuid.New(),
		EmployeeID:       uuid.New(),
		TotalAmount:      decimal.Zero,
		DailyOrderNumber: 3,
	}
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(order.ID, order.EmployeeID, order.TotalAmount, order.DailyOrderNumber).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.repo.Create(s.ctx, s.mock, order)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestUpdateTotalFinalizesOrder() {
	orderID := uuid.New()
	total := decimal.NewFromInt(80)
	s.mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET total_amount = $1 WHERE id = $2")).
		WithArgs(total, orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.repo.UpdateTotal(s.ctx, s.mock, orderID, total)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestGetByIDNotFoundReturnsNil() {
	orderID := uuid.New()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM orders")).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "employee_id", "total_amount", "daily_order_number", "created_at"}))

	order, err := s.repo.GetByID(s.ctx, orderID)

	s.NoError(err)
	s.Nil(order)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestDeleteByDateReportsDeletedCount() {
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE created_at::date = $1")).
		WithArgs("2026-08-31").
		WillReturnResult(pgxmock.NewResult("DELETE", 12))

	deleted, err := s.repo.DeleteByDate(s.ctx, s.date)

	s.Require().NoError(err)
	s.Equal(int64(12), deleted)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepoTestSuite) TestDailyReportRows() {
	rows := pgxmock.NewRows([]string{"name", "items", "total_amount", "created_at"}).
		AddRow("Asha", "Coffee × 1, Veg Thali × 2", decimal.NewFromInt(90), s.date).
		AddRow("Ravi", "Masala Dosa × 1", decimal.NewFromInt(30), s.date.Add(time.Hour))
	s.mock.ExpectQuery(regexp.QuoteMeta("string_agg")).
		WithArgs("2026-08-31").
		WillReturnRows(rows)

	report, err := s.repo.DailyReportRows(s.ctx, s.date)

	s.Require().NoError(err)
	s.Require().Len(report, 2)
	s.Equal("Asha", report[0].EmployeeName)
	s.Equal("Coffee × 1, Veg Thali × 2", report[0].Items)
	s.True(report[1].TotalAmount.Equal(decimal.NewFromInt(30)))
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}
