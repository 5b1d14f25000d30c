package v1_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/messmill/backend/internal/controllers/v1"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestExpensesCreate() {
	expense := suite.createTestExpense(250)

	suite.Assert().Equal("250", expense.Amount.String())
	suite.Assert().Equal("2026-10-14", expense.Date.String())
	suite.Assert().Equal(models.MaxExpenseEditsPerDay, expense.EditableToday)
	suite.Assert().Len(expense.EditHistory, 0)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/expenses/%s", expense.ID), expense.Links.Self)
}

func (suite *TestSuiteStandard) TestExpensesCreateNoAmount() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expenses", `[{"amount": 10}, {}]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var e v1.ExpenseCreateResponse
	test.DecodeResponse(suite.T(), &r, &e)
	suite.Require().Len(e.Data, 2)
	suite.Assert().Equal("10", e.Data[0].Data.Amount.String())
	suite.Assert().Equal(models.ErrExpenseAmountNotSet.Error(), *e.Data[1].Error)
}

func (suite *TestSuiteStandard) TestExpensesList() {
	suite.createTestExpense(100)
	suite.nextDay(1)
	suite.createTestExpense(200)
	suite.createTestExpense(300)

	tests := []struct {
		name    string
		query   string
		amounts []string
		total   int64
	}{
		{"All", "", []string{"100", "200", "300"}, 3},
		{"Date", "date=2026-10-15", []string{"200", "300"}, 2},
		{"Date without expenses", "date=2026-10-01", []string{}, 0},
		{"Offset", "offset=1", []string{"200", "300"}, 3},
		{"Limit", "limit=1", []string{"100"}, 3},
		{"Date and limit", "date=2026-10-15&limit=1&offset=1", []string{"300"}, 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/expenses?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var l v1.ExpenseListResponse
			test.DecodeResponse(t, &r, &l)

			amounts := make([]string, 0)
			for _, e := range l.Data {
				amounts = append(amounts, e.Amount.String())
			}

			assert.Equal(t, tt.amounts, amounts)
			assert.Equal(t, tt.total, l.Pagination.Total)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses?date=yesterday", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestExpensesUpdateDailyLimit() {
	expense := suite.createTestExpense(250)

	var e v1.ExpenseResponse
	for i := 1; i <= models.MaxExpenseEditsPerDay; i++ {
		err := json.Unmarshal(suite.patch(expense.Links.Self, amountBody("amount", float64(250+i)), http.StatusOK), &e)
		suite.Require().Nil(err)
		suite.Assert().Equal(i, e.Data.EditCount)
		suite.Assert().Equal(models.MaxExpenseEditsPerDay-i, e.Data.EditableToday)
	}

	body := suite.patch(expense.Links.Self, amountBody("amount", 999), http.StatusBadRequest)
	suite.Assert().Equal(models.ErrExpenseDailyEditLimit.Error(), test.DecodeError(suite.T(), body))

	// The limit starts over on the next day
	suite.nextDay(1)

	r := test.Request(suite.T(), http.MethodGet, expense.Links.Self, "")
	test.DecodeResponse(suite.T(), &r, &e)
	suite.Assert().Equal(models.MaxExpenseEditsPerDay, e.Data.EditableToday)
	suite.Assert().Equal("253", e.Data.Amount.String())

	err := json.Unmarshal(suite.patch(expense.Links.Self, amountBody("amount", 300), http.StatusOK), &e)
	suite.Require().Nil(err)
	suite.Assert().Equal(1, e.Data.EditCount)
	suite.Assert().Equal("2026-10-15", e.Data.LastEditDate.String())
	suite.Assert().Equal("2026-10-14", e.Data.Date.String(), "Editing must not change the date of the expense")
	suite.Assert().Len(e.Data.EditHistory, 4)
}

func (suite *TestSuiteStandard) TestExpensesUpdateFails() {
	expense := suite.createTestExpense(250)

	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"No amount", expense.Links.Self, `{"date": "2026-10-01"}`, http.StatusBadRequest},
		{"Empty body", expense.Links.Self, "", http.StatusBadRequest},
		{"Invalid ID", "http://example.com/v1/expenses/nope", `{"amount": 1}`, http.StatusBadRequest},
		{"Unknown ID", "http://example.com/v1/expenses/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37", `{"amount": 1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestExpensesDelete() {
	first := suite.createTestExpense(100)
	second := suite.createTestExpense(200)

	r := test.Request(suite.T(), http.MethodDelete, first.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, first.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal("there is no expense matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodOptions, second.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestExpensesDeleteLast() {
	first := suite.createTestExpense(100)
	suite.createTestExpense(200)

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses", "")
	var l v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Require().Len(l.Data, 1)
	suite.Assert().Equal(first.ID, l.Data[0].ID)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestExpensesRestart() {
	suite.createTestStudent("Alice", 1000)
	suite.createTestExpense(100)

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses?confirm=yes-please-delete-all-students", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses?confirm=yes-please-delete-all-expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses", "")
	var l v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Len(l.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students", "")
	var s v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Len(s.Data, 1, "Students must be kept")

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/expenses?confirm=yes-please-delete-all-expenses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
