package services

import (
	"context"
	"testing"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EmployeeServiceTestSuite struct {
	suite.Suite
	employeeRepo *MockEmployeeRepository
	cache        *MockCacheService
	service      EmployeeService

	employee *models.Employee
}

func (s *EmployeeServiceTestSuite) SetupTest() {
	s.employeeRepo = new(MockEmployeeRepository)
	s.cache = new(MockCacheService)
	s.service = NewEmployeeService(s.employeeRepo, s.cache, nil, "canteen-badges", 30*time.Minute)

	s.employee = &models.Employee{
		ID:           uuid.New(),
		Name:         "Ravi",
		Email:        "ravi@example.com",
		PIN:          "4321",
		WalletAmount: decimal.NewFromInt(200),
	}
}

func (s *EmployeeServiceTestSuite) TestVerifyCorrectPinBindsSession() {
	s.employeeRepo.On("GetByID", mock.Anything, s.employee.ID).Return(s.employee, nil)
	s.cache.On("SetSession", mock.Anything, mock.AnythingOfType("string"), s.employee.ID, 30*time.Minute).Return(nil)

	sessionID, employee, err := s.service.Verify(context.Background(), s.employee.ID, "4321")

	s.Require().NoError(err)
	s.NotEmpty(sessionID)
	s.Equal(s.employee.ID, employee.ID)
	s.cache.AssertExpectations(s.T())
}

func (s *EmployeeServiceTestSuite) TestVerifyTrimsWhitespace() {
	s.employeeRepo.On("GetByID", mock.Anything, s.employee.ID).Return(s.employee, nil)
	s.cache.On("SetSession", mock.Anything, mock.AnythingOfType("string"), s.employee.ID, 30*time.Minute).Return(nil)

	_, _, err := s.service.Verify(context.Background(), s.employee.ID, "  4321 ")

	s.NoError(err)
}

func (s *EmployeeServiceTestSuite) TestVerifyIncorrectPin() {
	s.employeeRepo.On("GetByID", mock.Anything, s.employee.ID).Return(s.employee, nil)

	sessionID, _, err := s.service.Verify(context.Background(), s.employee.ID, "9999")

	s.ErrorIs(err, ErrIncorrectPin)
	s.Empty(sessionID)
	s.cache.AssertNotCalled(s.T(), "SetSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *EmployeeServiceTestSuite) TestVerifyUnknownEmployee() {
	unknownID := uuid.New()
	s.employeeRepo.On("GetByID", mock.Anything, unknownID).Return(nil, nil)

	_, _, err := s.service.Verify(context.Background(), unknownID, "4321")

	s.ErrorIs(err, ErrEmployeeNotFound)
}

func (s *EmployeeServiceTestSuite) TestLogoutClearsCartAndSession() {
	s.cache.On("ClearCart", mock.Anything, "session-1").Return(nil)
	s.cache.On("DeleteSession", mock.Anything, "session-1").Return(nil)

	err := s.service.Logout(context.Background(), "session-1")

	s.NoError(err)
	s.cache.AssertExpectations(s.T())
}

func (s *EmployeeServiceTestSuite) TestTopUpWalletCreditsAmount() {
	amount := decimal.NewFromInt(100)
	s.employeeRepo.On("GetByID", mock.Anything, s.employee.ID).Return(s.employee, nil)
	s.employeeRepo.On("CreditWallet", mock.Anything, s.employee.ID, amount).Return(nil)

	employee, err := s.service.TopUpWallet(context.Background(), s.employee.ID, amount)

	s.Require().NoError(err)
	s.NotNil(employee)
	s.employeeRepo.AssertExpectations(s.T())
}

func (s *EmployeeServiceTestSuite) TestTopUpWalletRejectsNonPositiveAmount() {
	_, err := s.service.TopUpWallet(context.Background(), s.employee.ID, decimal.Zero)

	s.Error(err)
	s.employeeRepo.AssertNotCalled(s.T(), "CreditWallet", mock.Anything, mock.Anything, mock.Anything)
}

func (s *EmployeeServiceTestSuite) TestTopUpWalletUnknownEmployee() {
	unknownID := uuid.New()
	s.employeeRepo.On("GetByID", mock.Anything, unknownID).Return(nil, nil)

	_, err := s.service.TopUpWallet(context.Background(), unknownID, decimal.NewFromInt(50))

	s.ErrorIs(err, ErrEmployeeNotFound)
}

func (s *EmployeeServiceTestSuite) TestUpdateEmployeeKeepsPinWhenBlank() {
	s.employeeRepo.On("GetByID", mock.Anything, s.employee.ID).Return(s.employee, nil)
	s.employeeRepo.On("Update", mock.Anything, mock.MatchedBy(func(e *models.Employee) bool {
		return e.PIN == "4321"
	})).Return(nil)

	err := s.service.UpdateEmployee(context.Background(), &models.Employee{
		ID:    s.employee.ID,
		Name:  "Ravi K",
		Email: s.employee.Email,
	})

	s.NoError(err)
	s.employeeRepo.AssertExpectations(s.T())
}

func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}
