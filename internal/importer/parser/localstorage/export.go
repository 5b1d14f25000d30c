package localstorage

import (
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/types"
	"gorm.io/gorm"
)

// Export reads all ledgers into a document.
//
// Importing the document restores the ledgers with the same students,
// meals and expenses.
func Export(db *gorm.DB) (Document, error) {
	doc := Document{
		Students:     []Student{},
		Mills:        []Mill{},
		MonthlyMills: map[string][]MillDay{},
		Expenses:     []Expense{},
	}

	var students []models.Student
	err := db.Order("position ASC").Find(&students).Error
	if err != nil {
		return Document{}, err
	}

	for _, s := range students {
		err := s.LoadHistory(db)
		if err != nil {
			return Document{}, err
		}

		doc.Students = append(doc.Students, Student{
			ID:            s.ID.String(),
			Name:          s.Name,
			StudentTk:     Number{s.TotalMoney},
			Date:          s.LastEntryDate.Legacy(),
			EditCount:     s.EditCount,
			LastEditMonth: s.LastEditMonth.Key(),
			EditHistory:   exportHistory(s.EditHistory),
		})
	}

	entries, err := models.MealEntries(db)
	if err != nil {
		return Document{}, err
	}

	for _, entry := range entries {
		days, err := models.MealDays(db, entry.StudentID, types.Month{})
		if err != nil {
			return Document{}, err
		}

		mill := Mill{
			Name:        entry.Student.Name,
			Mill:        Number{entry.TotalMeals},
			EditHistory: []MillHistory{},
		}

		for _, day := range days {
			for _, record := range day.EditHistory {
				mill.EditHistory = append(mill.EditHistory, MillHistory{
					PrevMill: Number{record.PreviousAmount},
					NewMill:  Number{record.NewAmount},
					Date:     record.Date.Legacy(),
				})
			}
		}
		doc.Mills = append(doc.Mills, mill)

		if len(days) == 0 {
			continue
		}

		monthly := make([]MillDay, 0, len(days))
		for _, day := range days {
			monthly = append(monthly, MillDay{
				ID:          day.ID.String(),
				Date:        day.Date.Legacy(),
				Mill:        Number{day.MealCount},
				Edited:      day.Edited,
				EditCount:   day.EditCount,
				EditHistory: exportHistory(day.EditHistory),
			})
		}
		doc.MonthlyMills[entry.Student.Name] = monthly
	}

	var expenses []models.Expense
	err = db.Order("position ASC").Find(&expenses).Error
	if err != nil {
		return Document{}, err
	}

	for _, e := range expenses {
		err := e.LoadHistory(db)
		if err != nil {
			return Document{}, err
		}

		doc.Expenses = append(doc.Expenses, Expense{
			ID:           e.ID.String(),
			ExpencesTk:   Number{e.Amount},
			Date:         e.Date.Legacy(),
			EditCount:    e.EditCount,
			LastEditDate: e.LastEditDate.Legacy(),
			EditHistory:  exportHistory(e.EditHistory),
		})
	}

	return doc, nil
}

func exportHistory(records []models.EditRecord) []History {
	history := make([]History, 0, len(records))
	for _, r := range records {
		history = append(history, History{
			PreviousAmount: Number{r.PreviousAmount},
			NewAmount:      Number{r.NewAmount},
			Date:           r.Date.Legacy(),
		})
	}

	return history
}
