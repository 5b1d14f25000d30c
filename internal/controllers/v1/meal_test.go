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
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMealsCreate() {
	student := suite.createTestStudent("Alice", 1000)
	day := suite.addTestMeals(student, 2)

	suite.Assert().Equal(student.ID, day.StudentID)
	suite.Assert().Equal("2026-10-14", day.Date.String())
	suite.Assert().Equal("2", day.MealCount.String())
	suite.Assert().False(day.Edited)
	suite.Assert().True(day.Editable)
	suite.Assert().Len(day.EditHistory, 0)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/meals/%s/2026-10-14", student.ID), day.Links.Self)
	suite.Assert().Equal(student.Links.Self, day.Links.Student)
}

func (suite *TestSuiteStandard) TestMealsCreateByName() {
	student := suite.createTestStudent("Alice", 1000)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/meals", `[{"studentName": " aLiCe ", "mealCount": 1.5}]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var m v1.MealDayCreateResponse
	test.DecodeResponse(suite.T(), &r, &m)
	suite.Require().Len(m.Data, 1)
	suite.Assert().Equal(student.ID, m.Data[0].Data.StudentID)
	suite.Assert().Equal("1.5", m.Data[0].Data.MealCount.String())
}

func (suite *TestSuiteStandard) TestMealsCreateOncePerDay() {
	student := suite.createTestStudent("Alice", 1000)
	suite.addTestMeals(student, 2)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/meals", fmt.Sprintf(`[{"studentId": %q, "mealCount": 1}]`, student.ID))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var m v1.MealDayCreateResponse
	test.DecodeResponse(suite.T(), &r, &m)
	suite.Assert().Equal(models.ErrMealAlreadyAddedToday.Error(), *m.Data[0].Error)

	suite.nextDay(1)
	suite.addTestMeals(student, 1)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	var l v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Require().Len(l.Data, 1)
	suite.Assert().Equal("3", l.Data[0].TotalMeals.String())
}

// TestMealsCreateZeroDay verifies that a day recorded with zero meals
// can still be filled in.
func (suite *TestSuiteStandard) TestMealsCreateZeroDay() {
	student := suite.createTestStudent("Alice", 1000)
	suite.addTestMeals(student, 0)

	day := suite.addTestMeals(student, 2)
	suite.Assert().Equal("2", day.MealCount.String())
}

func (suite *TestSuiteStandard) TestMealsCreateFails() {
	suite.createTestStudent("Alice", 1000)

	tests := []struct {
		name   string
		body   string
		status int
		err    string
	}{
		{"No student", `[{"mealCount": 1}]`, http.StatusBadRequest, "either studentId or studentName must be set"},
		{"Unknown name", `[{"studentName": "Carol", "mealCount": 1}]`, http.StatusNotFound, models.ErrNoSuchStudent.Error()},
		{"Unknown ID", `[{"studentId": "f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37", "mealCount": 1}]`, http.StatusNotFound, models.ErrNoSuchStudent.Error()},
		{"No count", `[{"studentName": "Alice"}]`, http.StatusBadRequest, models.ErrMealCountNotSet.Error()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/meals", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var m v1.MealDayCreateResponse
			test.DecodeResponse(t, &r, &m)
			require.Len(t, m.Data, 1)
			assert.Equal(t, tt.err, *m.Data[0].Error)
		})
	}
}

func (suite *TestSuiteStandard) TestMealsList() {
	alice := suite.createTestStudent("Alice", 1000)
	bob := suite.createTestStudent("Bob", 500)
	suite.createTestStudent("Carol", 500)

	suite.addTestMeals(bob, 4)
	suite.addTestMeals(alice, 2)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var l v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &l)

	suite.Require().Len(l.Data, 2, "Students without meals have no entry")
	suite.Assert().Equal("Alice", l.Data[0].StudentName)
	suite.Assert().Equal("2", l.Data[0].TotalMeals.String())
	suite.Assert().Equal(alice.Links.Meals, l.Data[0].Links.Days)
	suite.Assert().Equal("Bob", l.Data[1].StudentName)
	suite.Assert().Equal("4", l.Data[1].TotalMeals.String())
}

func (suite *TestSuiteStandard) TestMealsUpdate() {
	student := suite.createTestStudent("Alice", 1000)
	day := suite.addTestMeals(student, 2)

	// Corrections can be made on later days
	suite.nextDay(2)

	var m v1.MealDayResponse
	err := json.Unmarshal(suite.patch(day.Links.Self, amountBody("mealCount", 3), http.StatusOK), &m)
	suite.Require().Nil(err)

	suite.Assert().Equal("3", m.Data.MealCount.String())
	suite.Assert().True(m.Data.Edited)
	suite.Assert().False(m.Data.Editable)
	suite.Assert().Equal(1, m.Data.EditCount)
	suite.Require().Len(m.Data.EditHistory, 1)
	suite.Assert().Equal("2", m.Data.EditHistory[0].PreviousAmount.String())
	suite.Assert().Equal("2026-10-16", m.Data.EditHistory[0].Date.String())

	body := suite.patch(day.Links.Self, amountBody("mealCount", 4), http.StatusBadRequest)
	suite.Assert().Equal(models.ErrMealAlreadyEdited.Error(), test.DecodeError(suite.T(), body))

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	var l v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Equal("3", l.Data[0].TotalMeals.String(), "The total must follow the correction")
}

func (suite *TestSuiteStandard) TestMealsUpdateFails() {
	student := suite.createTestStudent("Alice", 1000)
	day := suite.addTestMeals(student, 2)

	tests := []struct {
		name   string
		url    string
		body   string
		status int
	}{
		{"No count", day.Links.Self, `{}`, http.StatusBadRequest},
		{"Invalid date", fmt.Sprintf("http://example.com/v1/meals/%s/14-10-2026", student.ID), `{"mealCount": 1}`, http.StatusBadRequest},
		{"Invalid ID", "http://example.com/v1/meals/nope/2026-10-14", `{"mealCount": 1}`, http.StatusBadRequest},
		{"No meals on day", fmt.Sprintf("http://example.com/v1/meals/%s/2026-10-13", student.ID), `{"mealCount": 1}`, http.StatusNotFound},
		{"Unknown student", "http://example.com/v1/meals/f5e77a69-8d5d-4a5c-9b5c-3e0a1b4e2b37/2026-10-14", `{"mealCount": 1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, tt.url, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestMealsOptionsDay() {
	student := suite.createTestStudent("Alice", 1000)
	day := suite.addTestMeals(student, 2)

	r := test.Request(suite.T(), http.MethodOptions, day.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, PATCH", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/meals/%s/2026-10-01", student.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
