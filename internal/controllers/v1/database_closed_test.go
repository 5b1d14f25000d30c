package v1_test

import (
	"net/http"
	"testing"

	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/test"
	"github.com/stretchr/testify/assert"
)

// TestDatabaseClosed verifies that errors of the database are reported as
// internal server errors with a general message.
func (suite *TestSuiteStandard) TestDatabaseClosed() {
	student := suite.createTestStudent("Alice", 1000)
	suite.CloseDB()

	tests := []struct {
		method string
		url    string
		body   string
	}{
		{http.MethodGet, "http://example.com/v1/students", ""},
		{http.MethodGet, student.Links.Self, ""},
		{http.MethodGet, "http://example.com/v1/meals", ""},
		{http.MethodGet, "http://example.com/v1/expenses", ""},
		{http.MethodGet, "http://example.com/v1/dashboard", ""},
		{http.MethodGet, "http://example.com/v1/dashboard/report", ""},
		{http.MethodGet, "http://example.com/v1/export", ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.method+" "+tt.url, func(t *testing.T) {
			r := test.Request(t, tt.method, tt.url, tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)
			assert.Equal(t, models.ErrGeneral.Error(), test.DecodeError(t, r.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestDatabaseClosedCreate() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/students", `[{"name": "Alice", "totalMoney": 10}]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/expenses", `[{"amount": 10}]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
