package classattendance

import (
	"errors"
	"fmt"
)

// Class attendance domain errors
var (
	ErrNotAssigned       = errors.New("you are not assigned to this class")
	ErrWorkNotStarted    = errors.New("check into work before checking into a class")
	ErrAlreadyCheckedIn  = errors.New("you have already run this class today")
	ErrAlreadyCheckedOut = errors.New("this class session is already closed")
	ErrNotCheckedIn      = errors.New("you have not checked into this class today")
	ErrClassNotFound     = errors.New("class not found")
	ErrRecordNotFound    = errors.New("class attendance record not found")
)

// AlreadyInClassError names the class holding the trainer's open session.
type AlreadyInClassError struct {
	ClassName string
}

func (e *AlreadyInClassError) Error() string {
	return fmt.Sprintf("you are still checked into %s; check out first", e.ClassName)
}
