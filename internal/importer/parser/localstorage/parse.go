// Package localstorage reads and writes the ledgers in the layout of the
// browser storage of the mess mill web app.
package localstorage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/messmill/backend/internal/importer"
	"github.com/messmill/backend/internal/importer/helpers"
	"github.com/messmill/backend/internal/models"
	"github.com/messmill/backend/internal/types"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var ErrNotADocument = errors.New("not a JSON object with the keys of the browser storage")

// Parse parses a browser storage document into the resources to import.
func Parse(f io.Reader) (importer.ParsedResources, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return importer.ParsedResources{}, fmt.Errorf("could not read data from file: %w", err)
	}

	doc, warnings, err := Decode(data)
	if err != nil {
		return importer.ParsedResources{}, err
	}

	resources := Resources(doc)
	resources.Checksum = helpers.Sha256String(string(data))
	resources.Warnings = append(warnings, resources.Warnings...)

	return resources, nil
}

// Decode decodes the collections of a document.
//
// Every key is decoded on its own. A key that is missing or cannot be
// decoded is an empty collection and a warning is returned for it.
// Values can be JSON or a string containing JSON, which is how the
// browser stores them.
func Decode(data []byte) (Document, []string, error) {
	var keys map[string]json.RawMessage
	err := json.Unmarshal(data, &keys)
	if err != nil || keys == nil {
		return Document{}, nil, ErrNotADocument
	}

	doc := Document{
		Students:     []Student{},
		Mills:        []Mill{},
		MonthlyMills: map[string][]MillDay{},
		Expenses:     []Expense{},
	}

	w := &warnings{}
	decodeKey(keys, KeyStudents, &doc.Students, w)
	decodeKey(keys, KeyMills, &doc.Mills, w)
	decodeKey(keys, KeyMonthlyMills, &doc.MonthlyMills, w)
	decodeKey(keys, KeyExpenses, &doc.Expenses, w)

	return doc, w.list, nil
}

type warnings struct {
	list []string
}

func (w *warnings) add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn().Str("importer", "localstorage").Msg(msg)
	w.list = append(w.list, msg)
}

func decodeKey[T any](keys map[string]json.RawMessage, key string, target *T, w *warnings) {
	raw, ok := keys[key]
	if !ok {
		w.add("%s is missing, using an empty collection", key)
		return
	}

	if string(raw) == "null" {
		return
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		raw = json.RawMessage(s)
	}

	var v T
	err := json.Unmarshal(raw, &v)
	if err != nil {
		w.add("%s could not be parsed, using an empty collection: %s", key, err)
		return
	}

	*target = v
}

// Resources converts a document to the resources to import.
//
// Meal data is joined to students by their name, compared case-insensitively.
// Records that cannot be converted are skipped with a warning.
func Resources(doc Document) importer.ParsedResources {
	var resources importer.ParsedResources
	w := &warnings{}

	index := make(map[string]int, len(doc.Students))
	for _, s := range doc.Students {
		name := key(s.Name)
		if _, ok := index[name]; ok {
			w.add("student '%s' is a duplicate and was skipped", s.Name)
			continue
		}

		index[name] = len(resources.Students)
		resources.Students = append(resources.Students, student(s, w))
	}

	mills := make(map[int][]MillHistory)
	for _, m := range doc.Mills {
		idx, ok := index[key(m.Name)]
		if !ok {
			w.add("meals of unknown student '%s' were skipped", m.Name)
			continue
		}

		resources.Students[idx].Meals.Decimal = m.Mill.Decimal
		resources.Students[idx].Meals.Valid = true
		mills[idx] = m.EditHistory
	}

	names := make([]string, 0, len(doc.MonthlyMills))
	for name := range doc.MonthlyMills {
		names = append(names, name)
	}
	slices.Sort(names)

	// Keys that only differ in case belong to the same student, so dates
	// are unique per student and not per key.
	seen := make(map[int]map[string]bool, len(resources.Students))
	for _, name := range names {
		idx, ok := index[key(name)]
		if !ok {
			w.add("meal days of unknown student '%s' were skipped", name)
			continue
		}

		if seen[idx] == nil {
			seen[idx] = make(map[string]bool)
		}

		resources.Students[idx].Days = append(resources.Students[idx].Days, mealDays(name, doc.MonthlyMills[name], mills[idx], seen[idx], w)...)
	}

	for _, s := range resources.Students {
		slices.SortFunc(s.Days, func(a, b importer.MealDay) int {
			return a.Model.Date.Compare(b.Model.Date)
		})
	}

	for i, e := range doc.Expenses {
		resources.Expenses = append(resources.Expenses, expense(i, e, w))
	}

	resources.Warnings = w.list
	return resources
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func student(s Student, w *warnings) importer.Student {
	model := models.Student{
		DefaultModel: models.DefaultModel{ID: parseID(s.ID, "student '"+s.Name+"'", w)},
		Name:         s.Name,
		TotalMoney:   s.StudentTk.Decimal,
		EditCount:    s.EditCount,
	}

	model.LastEntryDate = parseDate(s.Date, "date of student '"+s.Name+"'", w)

	history := editHistory(s.EditHistory, "edit of student '"+s.Name+"'", w)

	if s.LastEditMonth != "" {
		month, err := types.ParseMonthKey(s.LastEditMonth)
		if err != nil {
			w.add("last edit month of student '%s': %s", s.Name, err)
		}
		model.LastEditMonth = month
	} else if len(history) > 0 {
		model.LastEditMonth = history[len(history)-1].Date.Month()
	}

	return importer.Student{
		Model:   model,
		History: history,
	}
}

func mealDays(name string, days []MillDay, mills []MillHistory, seen map[string]bool, w *warnings) []importer.MealDay {
	result := make([]importer.MealDay, 0, len(days))

	for _, d := range days {
		date, err := types.ParseLegacyDate(d.Date)
		if err != nil {
			w.add("meals of '%s' skipped: %s", name, err)
			continue
		}

		if seen[date.String()] {
			w.add("meals of '%s' on %s are a duplicate and were skipped", name, d.Date)
			continue
		}
		seen[date.String()] = true

		history := editHistory(d.EditHistory, fmt.Sprintf("meal edit of '%s' on %s", name, d.Date), w)
		if len(history) == 0 {
			for _, m := range mills {
				edited, err := types.ParseLegacyDate(m.Date)
				if err != nil || !edited.Equal(date) {
					continue
				}

				history = append(history, models.EditRecord{
					PreviousAmount: m.PrevMill.Decimal,
					NewAmount:      m.NewMill.Decimal,
					Date:           date,
				})
			}
		}

		result = append(result, importer.MealDay{
			Model: models.MealDay{
				DefaultModel: models.DefaultModel{ID: parseID(d.ID, fmt.Sprintf("meals of '%s' on %s", name, d.Date), w)},
				Date:         date,
				MealCount:    d.Mill.Decimal,
				Edited:       d.Edited,
				EditCount:    d.EditCount,
			},
			History: history,
		})
	}

	return result
}

func expense(i int, e Expense, w *warnings) importer.Expense {
	what := fmt.Sprintf("expense %d", i+1)

	model := models.Expense{
		DefaultModel: models.DefaultModel{ID: parseID(e.ID, what, w)},
		Amount:       e.ExpencesTk.Decimal,
		Date:         parseDate(e.Date, "date of "+what, w),
		EditCount:    e.EditCount,
		LastEditDate: parseDate(e.LastEditDate, "last edit date of "+what, w),
	}

	history := editHistory(e.EditHistory, "edit of "+what, w)
	if model.LastEditDate.IsZero() && len(history) > 0 {
		model.LastEditDate = history[len(history)-1].Date
	}

	return importer.Expense{
		Model:   model,
		History: history,
	}
}

func editHistory(entries []History, what string, w *warnings) []models.EditRecord {
	records := make([]models.EditRecord, 0, len(entries))
	for _, h := range entries {
		date, err := types.ParseLegacyDate(h.Date)
		if err != nil {
			w.add("%s skipped: %s", what, err)
			continue
		}

		records = append(records, models.EditRecord{
			PreviousAmount: h.PreviousAmount.Decimal,
			NewAmount:      h.NewAmount.Decimal,
			Date:           date,
		})
	}

	return records
}

// parseID parses an ID. Invalid and missing IDs are replaced with
// a new one.
func parseID(id, what string, w *warnings) uuid.UUID {
	if id == "" {
		return uuid.New()
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		w.add("ID of %s is invalid, a new one is used: %s", what, err)
		return uuid.New()
	}

	return parsed
}

// parseDate parses a date in dd/mm/yyyy format. An empty string is
// the zero date.
func parseDate(s, what string, w *warnings) types.Date {
	if strings.TrimSpace(s) == "" {
		return types.Date{}
	}

	date, err := types.ParseLegacyDate(s)
	if err != nil {
		w.add("%s: %s", what, err)
	}

	return date
}
