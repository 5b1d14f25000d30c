package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrEmptyCollection  = errors.New("there is nothing to delete")
)

// Student errors
var (
	ErrStudentNameEmpty          = errors.New("the student name must not be empty")
	ErrStudentNameNotUnique      = errors.New("the student name must be unique")
	ErrStudentAmountNotSet       = errors.New("the amount of money must be set")
	ErrStudentAlreadyEditedToday = errors.New("the student has already been edited today")
	ErrStudentMonthlyEditLimit   = errors.New("the student has reached the limit of 3 edits for this month")
	ErrNoSuchStudent             = errors.New("there is no student with this name or ID")
)

// Meal errors
var (
	ErrMealCountNotSet       = errors.New("the meal count must be set")
	ErrMealAlreadyAddedToday = errors.New("meals for this student have already been added today")
	ErrMealAlreadyEdited     = errors.New("the meals for this day have already been edited")
)

// Expense errors
var (
	ErrExpenseAmountNotSet   = errors.New("the expense amount must be set")
	ErrExpenseDailyEditLimit = errors.New("the expense has reached the limit of 3 edits for today")
)
