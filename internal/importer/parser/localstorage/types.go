package localstorage

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Keys of the collections in the browser storage.
const (
	KeyStudents     = "studentsData"
	KeyMills        = "millData"
	KeyMonthlyMills = "monthlyMillData"
	KeyExpenses     = "expensesData"
)

// Document is the content of the browser storage the ledgers were kept in.
type Document struct {
	Students     []Student            `json:"studentsData"`
	Mills        []Mill               `json:"millData"`
	MonthlyMills map[string][]MillDay `json:"monthlyMillData"`
	Expenses     []Expense            `json:"expensesData"`
}

// Number is a decimal that is written as a JSON number.
type Number struct {
	decimal.Decimal
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Decimal = decimal.Zero
		return nil
	}

	return n.Decimal.UnmarshalJSON(data)
}

type Student struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	StudentTk     Number    `json:"studentTk"`
	Date          string    `json:"date"`
	EditCount     int       `json:"editCount"`
	LastEditMonth string    `json:"lastEditMonth,omitempty"`
	EditHistory   []History `json:"editHistory"`
}

// History is one edit of a student or an expense.
type History struct {
	PreviousAmount Number `json:"previousAmount"`
	NewAmount      Number `json:"newAmount"`
	Date           string `json:"date"`
}

// UnmarshalJSON also accepts a plain date string, which is how older
// versions recorded that an edit happened.
func (h *History) UnmarshalJSON(data []byte) error {
	var date string
	if err := json.Unmarshal(data, &date); err == nil {
		*h = History{Date: date}
		return nil
	}

	type history History
	var v history
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}

	*h = History(v)
	return nil
}

// Mill is the aggregate row of the meals of a student.
type Mill struct {
	Name        string        `json:"name"`
	Mill        Number        `json:"mill"`
	EditHistory []MillHistory `json:"editHistory"`
}

type MillHistory struct {
	PrevMill Number `json:"prevMill"`
	NewMill  Number `json:"newMill"`
	Date     string `json:"date"`
}

// MillDay is the meal count of a student on one day.
type MillDay struct {
	ID          string    `json:"id,omitempty"`
	Date        string    `json:"date"`
	Mill        Number    `json:"mill"`
	Edited      bool      `json:"edited"`
	EditCount   int       `json:"editCount"`
	EditHistory []History `json:"editHistory,omitempty"`
}

type Expense struct {
	ID           string    `json:"id,omitempty"`
	ExpencesTk   Number    `json:"expencesTk"`
	Date         string    `json:"date"`
	EditCount    int       `json:"editCount"`
	LastEditDate string    `json:"lastEditDate,omitempty"`
	EditHistory  []History `json:"editHistory"`
}
