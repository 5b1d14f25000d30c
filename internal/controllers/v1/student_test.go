package v1_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/messmill/backend/internal/controllers/v1"
	"github.com/messmill/backend/internal/httputil"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestStudentsCreate() {
	student := suite.createTestStudent("Alice", 1000)

	suite.Assert().Equal("Alice", student.Name)
	suite.Assert().Equal("1000", student.TotalMoney.String())
	suite.Assert().Equal("2026-10-14", student.LastEntryDate.String())
	suite.Assert().Equal("", student.LastEditMonth)
	suite.Assert().Equal(models.MaxStudentEditsPerMonth, student.EditableThisMonth)
	suite.Assert().NotNil(student.EditHistory)
	suite.Assert().Len(student.EditHistory, 0)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/students/%s", student.ID), student.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/students/%s/meals", student.ID), student.Links.Meals)
}

func (suite *TestSuiteStandard) TestStudentsCreateFails() {
	suite.createTestStudent("Alice", 1000)

	tests := []struct {
		name   string
		body   any
		status int
		err    string
	}{
		{"Duplicate name", `[{"name": "alice", "totalMoney": 10}]`, http.StatusBadRequest, models.ErrStudentNameNotUnique.Error()},
		{"Duplicate name with whitespace", `[{"name": " ALICE ", "totalMoney": 10}]`, http.StatusBadRequest, models.ErrStudentNameNotUnique.Error()},
		{"Empty name", `[{"name": "  ", "totalMoney": 10}]`, http.StatusBadRequest, models.ErrStudentNameEmpty.Error()},
		{"No amount", `[{"name": "Bob"}]`, http.StatusBadRequest, models.ErrStudentAmountNotSet.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/students", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var s v1.StudentCreateResponse
			test.DecodeResponse(t, &r, &s)
			require.Len(t, s.Data, 1)
			assert.Equal(t, tt.err, *s.Data[0].Error)
		})
	}
}

func (suite *TestSuiteStandard) TestStudentsCreateInvalidBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students", `{"name": "not a list"}`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(httputil.ErrRequestBodyEmpty.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

// TestStudentsCreatePartial verifies that valid students are created even
// when others in the same request fail.
func (suite *TestSuiteStandard) TestStudentsCreatePartial() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students", `[{"name": "Alice", "totalMoney": 10}, {"name": "ALICE", "totalMoney": 20}]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var s v1.StudentCreateResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Require().Len(s.Data, 2)
	suite.Assert().Equal("Alice", s.Data[0].Data.Name)
	suite.Assert().Nil(s.Data[1].Data)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students", "")
	var l v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Len(l.Data, 1)
}

func (suite *TestSuiteStandard) TestStudentsGet() {
	student := suite.createTestStudent("Alice", 1000)

	r := test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var s v1.StudentResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal(student.ID, s.Data.ID)
	suite.Assert().Equal("Alice", s.Data.Name)
}

func (suite *TestSuiteStandard) TestStudentsGetErrors() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal(httputil.ErrInvalidUUID.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal("there is no student matching your query", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/students/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/students/not-a-uuid/meals", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestStudentsList() {
	suite.createTestStudent("Alice", 1000)
	suite.createTestStudent("Bob", 500)
	suite.createTestStudent("Alicia", 250)

	tests := []struct {
		name  string
		query string
		names []string
		total int64
		limit int
	}{
		{"All", "", []string{"Alice", "Bob", "Alicia"}, 3, 50},
		{"Glob", "name=ali*", []string{"Alice", "Alicia"}, 2, 50},
		{"Glob upper case", "name=ALI*A", []string{"Alicia"}, 1, 50},
		{"Search", "search=OB", []string{"Bob"}, 1, 50},
		{"Search and glob", "search=li&name=*e", []string{"Alice"}, 1, 50},
		{"No match", "search=carol", []string{}, 0, 50},
		{"Offset and limit", "offset=1&limit=1", []string{"Bob"}, 3, 1},
		{"Offset too large", "offset=5", []string{}, 3, 50},
		{"No limit", "limit=-1", []string{"Alice", "Bob", "Alicia"}, 3, -1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/students?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var l v1.StudentListResponse
			test.DecodeResponse(t, &r, &l)

			names := make([]string, 0)
			for _, s := range l.Data {
				names = append(names, s.Name)
			}

			assert.Equal(t, tt.names, names)
			assert.Equal(t, tt.total, l.Pagination.Total)
			assert.Equal(t, len(tt.names), l.Pagination.Count)
			assert.Equal(t, tt.limit, l.Pagination.Limit)
		})
	}
}

func (suite *TestSuiteStandard) TestStudentsListInvalidQuery() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students?offset=-1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestStudentsUpdate() {
	student := suite.createTestStudent("Alice", 1000)

	var s v1.StudentResponse
	err := json.Unmarshal(suite.patch(student.Links.Self, amountBody("totalMoney", 1200), http.StatusOK), &s)
	suite.Require().Nil(err)

	suite.Assert().Equal("1200", s.Data.TotalMoney.String())
	suite.Assert().Equal(1, s.Data.EditCount)
	suite.Assert().Equal("2026-10", s.Data.LastEditMonth)
	suite.Assert().Equal(models.MaxStudentEditsPerMonth-1, s.Data.EditableThisMonth)
	suite.Require().Len(s.Data.EditHistory, 1)
	suite.Assert().Equal("1000", s.Data.EditHistory[0].PreviousAmount.String())
	suite.Assert().Equal("1200", s.Data.EditHistory[0].NewAmount.String())
	suite.Assert().Equal("2026-10-14", s.Data.EditHistory[0].Date.String())
}

func (suite *TestSuiteStandard) TestStudentsUpdateOncePerDay() {
	student := suite.createTestStudent("Alice", 1000)

	suite.patch(student.Links.Self, amountBody("totalMoney", 1200), http.StatusOK)
	body := suite.patch(student.Links.Self, amountBody("totalMoney", 1300), http.StatusBadRequest)
	suite.Assert().Equal(models.ErrStudentAlreadyEditedToday.Error(), test.DecodeError(suite.T(), body))

	suite.nextDay(1)
	suite.patch(student.Links.Self, amountBody("totalMoney", 1300), http.StatusOK)
}

func (suite *TestSuiteStandard) TestStudentsUpdateMonthlyLimit() {
	student := suite.createTestStudent("Alice", 1000)

	for i := 0; i < models.MaxStudentEditsPerMonth; i++ {
		suite.patch(student.Links.Self, amountBody("totalMoney", float64(1100+i)), http.StatusOK)
		suite.nextDay(1)
	}

	body := suite.patch(student.Links.Self, amountBody("totalMoney", 2000), http.StatusBadRequest)
	suite.Assert().Equal(models.ErrStudentMonthlyEditLimit.Error(), test.DecodeError(suite.T(), body))

	r := test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	var s v1.StudentResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal(0, s.Data.EditableThisMonth)
	suite.Assert().Equal("1102", s.Data.TotalMoney.String())

	// The count starts over in the next month
	suite.now = time.Date(2026, time.November, 1, 8, 0, 0, 0, time.UTC)

	r = test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal(models.MaxStudentEditsPerMonth, s.Data.EditableThisMonth)

	err := json.Unmarshal(suite.patch(student.Links.Self, amountBody("totalMoney", 2000), http.StatusOK), &s)
	suite.Require().Nil(err)
	suite.Assert().Equal(1, s.Data.EditCount)
	suite.Assert().Equal("2026-11", s.Data.LastEditMonth)
	suite.Assert().Len(s.Data.EditHistory, 4)
}

func (suite *TestSuiteStandard) TestStudentsUpdateFails() {
	student := suite.createTestStudent("Alice", 1000)

	tests := []struct {
		name   string
		url    string
		body   string
		status int
		err    string
	}{
		{"No amount", student.Links.Self, `{}`, http.StatusBadRequest, models.ErrStudentAmountNotSet.Error()},
		{"Amount null", student.Links.Self, `{"totalMoney": null}`, http.StatusBadRequest, models.ErrStudentAmountNotSet.Error()},
		{"Empty body", student.Links.Self, "", http.StatusBadRequest, httputil.ErrRequestBodyEmpty.Error()},
		{"Broken body", student.Links.Self, `{"totalMoney": 12`, http.StatusBadRequest, httputil.ErrInvalidBody.Error()},
		{"Invalid ID", "http://example.com/v1/students/nope", `{"totalMoney": 12}`, http.StatusBadRequest, httputil.ErrInvalidUUID.Error()},
		{"Unknown ID", "http://example.com/v1/students/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37", `{"totalMoney": 12}`, http.StatusNotFound, "there is no student matching your query"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
			assert.Equal(t, tt.err, test.DecodeError(t, r.Body.Bytes()))
		})
	}

	// Failed updates do not count as edits
	r := test.Request(suite.T(), http.MethodGet, student.Links.Self, "")
	var s v1.StudentResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal(0, s.Data.EditCount)
}

func (suite *TestSuiteStandard) TestStudentsDelete() {
	alice := suite.createTestStudent("Alice", 1000)
	bob := suite.createTestStudent("Bob", 500)
	suite.addTestMeals(alice, 2)

	r := test.Request(suite.T(), http.MethodDelete, alice.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, alice.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodDelete, alice.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	var m v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &m)
	suite.Assert().Len(m.Data, 0, "Meals of deleted students must be deleted")

	r = test.Request(suite.T(), http.MethodGet, bob.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestStudentsDeleteLast() {
	suite.createTestStudent("Alice", 1000)
	suite.createTestStudent("Bob", 500)

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students", "")
	var l v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Require().Len(l.Data, 1)
	suite.Assert().Equal("Alice", l.Data[0].Name)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students/last", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().Equal(models.ErrEmptyCollection.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestStudentsRestart() {
	alice := suite.createTestStudent("Alice", 1000)
	suite.addTestMeals(alice, 2)
	suite.createTestExpense(100)

	for _, query := range []string{"", "?confirm=yes"} {
		r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students"+query, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}

	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students?confirm=yes-please-delete-all-students", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students", "")
	var l v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Len(l.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	var m v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &m)
	suite.Assert().Len(m.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/expenses", "")
	var e v1.ExpenseListResponse
	test.DecodeResponse(suite.T(), &r, &e)
	suite.Assert().Len(e.Data, 1, "Expenses must be kept")

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1/students?confirm=yes-please-delete-all-students", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestStudentsMeals() {
	student := suite.createTestStudent("Alice", 1000)
	suite.addTestMeals(student, 2)
	suite.nextDay(1)
	suite.addTestMeals(student, 3)

	// A day in the next month
	suite.now = time.Date(2026, time.November, 2, 9, 0, 0, 0, time.UTC)
	suite.addTestMeals(student, 1)

	tests := []struct {
		query string
		dates []string
	}{
		{"", []string{"2026-10-14", "2026-10-15", "2026-11-02"}},
		{"?month=2026-10", []string{"2026-10-14", "2026-10-15"}},
		{"?month=2026-11", []string{"2026-11-02"}},
		{"?month=2026-12", []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, student.Links.Meals+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var l v1.MealDayListResponse
			test.DecodeResponse(t, &r, &l)

			dates := make([]string, 0)
			for _, d := range l.Data {
				dates = append(dates, d.Date.String())
			}
			assert.Equal(t, tt.dates, dates)
		})
	}
}

func (suite *TestSuiteStandard) TestStudentsMealsErrors() {
	student := suite.createTestStudent("Alice", 1000)

	r := test.Request(suite.T(), http.MethodGet, student.Links.Meals+"?month=October", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("the month query parameter must be in YYYY-MM format", test.DecodeError(suite.T(), r.Body.Bytes()))

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37/meals", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students/nope/meals", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
