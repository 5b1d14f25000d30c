package v1

import (
	"errors"

	"github.com/google/uuid"
	"github.com/messmill/backend/internal/events"
	"github.com/messmill/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

var rejections = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_rejections_total",
		Help: "How many ledger operations were rejected by a rule, partitioned by collection and reason.",
	},
	[]string{"collection", "reason"},
)

// Collectors returns the Prometheus metrics of the v1 API.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{rejections}
}

var reasons = []struct {
	err    error
	reason string
}{
	{models.ErrStudentNameNotUnique, "duplicate_name"},
	{models.ErrStudentAlreadyEditedToday, "edited_today"},
	{models.ErrStudentMonthlyEditLimit, "monthly_limit"},
	{models.ErrMealAlreadyAddedToday, "added_today"},
	{models.ErrMealAlreadyEdited, "already_edited"},
	{models.ErrExpenseDailyEditLimit, "daily_limit"},
	{models.ErrNoSuchStudent, "no_such_student"},
	{models.ErrEmptyCollection, "empty_collection"},
}

// reject counts err if it is one of the ledger rules.
func reject(collection events.Collection, err error) {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			rejections.WithLabelValues(string(collection), r.reason).Inc()
			return
		}
	}
}

// publish notifies subscribers about a committed change.
func publish(collection events.Collection, action events.Action, id uuid.UUID) {
	e := events.Event{
		Collection: collection,
		Action:     action,
	}

	if id != uuid.Nil {
		e.ID = &id
	}

	events.Default.Publish(e)
}
