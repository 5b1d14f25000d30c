package v1_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"

	v1 "github.com/messmill/backend/internal/controllers/v1"
	"github.com/messmill/backend/internal/importer/parser/localstorage"
	"github.com/messmill/backend/test"
)

const legacyFile = "../../../testdata/legacy.json"

func (suite *TestSuiteStandard) importLegacyFile() v1.ImportResponse {
	data, err := os.ReadFile(legacyFile)
	suite.Require().Nil(err)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", string(data))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var i v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &i)
	return i
}

func (suite *TestSuiteStandard) TestImport() {
	i := suite.importLegacyFile()

	suite.Assert().Equal(2, i.Data.Students)
	suite.Assert().Equal(2, i.Data.MealDays)
	suite.Assert().Equal(2, i.Data.Expenses)
	suite.Assert().Len(i.Data.Checksum, 64)
	suite.Assert().Equal([]string{"meals of unknown student 'Carol' were skipped"}, i.Data.Warnings)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/meals", "")
	var m v1.MealEntryListResponse
	test.DecodeResponse(suite.T(), &r, &m)
	suite.Require().Len(m.Data, 2)
	suite.Assert().Equal("Alice", m.Data[0].StudentName)
	suite.Assert().Equal("5", m.Data[0].TotalMeals.String())
	suite.Assert().Equal("4", m.Data[1].TotalMeals.String())
}

func (suite *TestSuiteStandard) TestImportReplacesData() {
	suite.createTestStudent("Zed", 10)
	suite.createTestExpense(999)

	suite.importLegacyFile()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students?name=zed", "")
	var l v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Len(l.Data, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/dashboard", "")
	var d v1.DashboardResponse
	test.DecodeResponse(suite.T(), &r, &d)
	suite.Assert().Equal("500", d.Data.TotalExpenses.String())
}

func (suite *TestSuiteStandard) TestImportMultipart() {
	data, err := os.ReadFile(legacyFile)
	suite.Require().Nil(err)

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "mess-mill.json")
	suite.Require().Nil(err)
	_, err = fw.Write(data)
	suite.Require().Nil(err)
	suite.Require().Nil(mw.Close())

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", body, map[string]string{"Content-Type": mw.FormDataContentType()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var i v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &i)
	suite.Assert().Equal(2, i.Data.Students)
}

func (suite *TestSuiteStandard) TestImportFails() {
	suite.createTestStudent("Alice", 1000)

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	suite.Assert().Equal("you must send a file or a JSON document to this endpoint", test.DecodeError(suite.T(), r.Body.Bytes()))

	// A multipart form without the file field
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	suite.Require().Nil(mw.WriteField("name", "value"))
	suite.Require().Nil(mw.Close())

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", body, map[string]string{"Content-Type": mw.FormDataContentType()})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", `["not", "a", "document"]`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	// Failed imports keep the existing data
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/students", "")
	var l v1.StudentListResponse
	test.DecodeResponse(suite.T(), &r, &l)
	suite.Assert().Len(l.Data, 1)
}

func (suite *TestSuiteStandard) TestExport() {
	alice := suite.createTestStudent("Alice", 1000)
	suite.addTestMeals(alice, 2)
	suite.createTestExpense(300)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal(`attachment; filename="mess-mill-2026-10-14.json"`, r.Header().Get("Content-Disposition"))

	var doc localstorage.Document
	test.DecodeResponse(suite.T(), &r, &doc)

	suite.Require().Len(doc.Students, 1)
	suite.Assert().Equal(alice.ID.String(), doc.Students[0].ID)
	suite.Assert().Equal("14/10/2026", doc.Students[0].Date)
	suite.Require().Len(doc.Mills, 1)
	suite.Assert().Equal("2", doc.Mills[0].Mill.String())
	suite.Assert().Len(doc.MonthlyMills["Alice"], 1)
	suite.Require().Len(doc.Expenses, 1)
	suite.Assert().Equal("300", doc.Expenses[0].ExpencesTk.String())
}

// TestExportImport verifies that importing an export restores the same data.
func (suite *TestSuiteStandard) TestExportImport() {
	alice := suite.createTestStudent("Alice", 1000)
	bob := suite.createTestStudent("Bob", 250)
	suite.patch(alice.Links.Self, amountBody("totalMoney", 1200), http.StatusOK)
	day := suite.addTestMeals(alice, 2)
	suite.patch(day.Links.Self, amountBody("mealCount", 3), http.StatusOK)
	suite.addTestMeals(bob, 1)
	expense := suite.createTestExpense(300)
	suite.patch(expense.Links.Self, amountBody("amount", 320), http.StatusOK)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	exported := r.Body.String()

	r = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/import", exported)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var i v1.ImportResponse
	test.DecodeResponse(suite.T(), &r, &i)
	suite.Assert().Len(i.Data.Warnings, 0)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(exported, r.Body.String())

	// Edit limits survive the round trip
	body := suite.patch(alice.Links.Self, amountBody("totalMoney", 1300), http.StatusBadRequest)
	suite.Assert().Equal("the student has already been edited today", test.DecodeError(suite.T(), body))
}
