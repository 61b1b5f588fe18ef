package project

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store validation failures.
type ErrorCode string

const (
	// ErrCodeEmptyName indicates a blank project name or report number.
	ErrCodeEmptyName ErrorCode = "EMPTY_NAME"

	// ErrCodeDuplicateName indicates a project name collision.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeNotFound indicates the referenced project or report is absent.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicateReportID indicates a report number collision within a project.
	ErrCodeDuplicateReportID ErrorCode = "DUPLICATE_REPORT_ID"

	// ErrCodeEmptyReportList indicates generation was requested with no reports.
	ErrCodeEmptyReportList ErrorCode = "EMPTY_REPORT_LIST"
)

// Error is a validation failure detected before any mutation. The store's
// state is unchanged when one is returned.
type Error struct {
	Code    ErrorCode
	Message string

	// Project names the affected project, when known.
	Project string

	// ReportID names the conflicting report number (duplicate errors only).
	ReportID string
}

func (e *Error) Error() string {
	switch {
	case e.Project != "" && e.ReportID != "":
		return fmt.Sprintf("%s: %s (project=%s, report_id=%s)", e.Code, e.Message, e.Project, e.ReportID)
	case e.Project != "":
		return fmt.Sprintf("%s: %s (project=%s)", e.Code, e.Message, e.Project)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// codeIs reports whether err is a store Error with the given code.
// Uses errors.As to handle wrapped errors.
func codeIs(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsEmptyName reports whether err is an empty-name validation failure.
func IsEmptyName(err error) bool { return codeIs(err, ErrCodeEmptyName) }

// IsDuplicateName reports whether err is a project-name collision.
func IsDuplicateName(err error) bool { return codeIs(err, ErrCodeDuplicateName) }

// IsNotFound reports whether err is a missing project or report.
func IsNotFound(err error) bool { return codeIs(err, ErrCodeNotFound) }

// IsDuplicateReportID reports whether err is a report-number collision.
func IsDuplicateReportID(err error) bool { return codeIs(err, ErrCodeDuplicateReportID) }

// IsEmptyReportList reports whether err is a generate-with-no-reports failure.
func IsEmptyReportList(err error) bool { return codeIs(err, ErrCodeEmptyReportList) }

func newEmptyName(message string) *Error {
	return &Error{Code: ErrCodeEmptyName, Message: message}
}

func newDuplicateName(name string) *Error {
	return &Error{Code: ErrCodeDuplicateName, Message: "project name already exists", Project: name}
}

func newProjectNotFound(name string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "project does not exist", Project: name}
}

func newReportNotFound(projectName, internalID string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no report with internal id %q", internalID),
		Project: projectName,
	}
}

func newDuplicateReportID(projectName, reportID string) *Error {
	return &Error{
		Code:     ErrCodeDuplicateReportID,
		Message:  "report number already exists in project",
		Project:  projectName,
		ReportID: reportID,
	}
}

func newEmptyReportList(projectName string) *Error {
	return &Error{
		Code:    ErrCodeEmptyReportList,
		Message: "project has no reports to generate",
		Project: projectName,
	}
}
