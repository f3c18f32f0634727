// Package validate holds the identifier and field predicates that gate every
// persistence operation.
//
// Two employee ID predicates exist on purpose: the employee lookup accepts any
// three-letter prefix drawn from A, T and S followed by 0 and a non-zero
// three digit block, while task creation and listing accept only the literal
// ATS0 prefix (and so accept ATS0000). Do not merge them.
package validate

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"

	"task-tracker/internal/errutil"
)

// CompanyDomain is the only mail domain accepted for employee addresses.
const CompanyDomain = "astrolitetech.com"

// DateLayout is the wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

var (
	// RE2 has no lookahead, so the lookup pattern needs regexp2.
	lookupEmployeeIDRe = func() *regexp2.Regexp {
		re := regexp2.MustCompile(`^[ATS]{3}0(?!000)[0-9]{3}$`, regexp2.None)
		re.MatchTimeout = 100 * time.Millisecond
		return re
	}()

	taskEmployeeIDRe = regexp.MustCompile(`^ATS0\d{3}$`)

	companyEmailRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?@astrolitetech\.com$`)
)

// IsValidLookupEmployeeID is the predicate used by GET /api/employees/{empId}.
func IsValidLookupEmployeeID(id string) bool {
	ok, err := lookupEmployeeIDRe.MatchString(id)
	return err == nil && ok
}

// IsValidTaskEmployeeID is the predicate used when creating or filtering tasks
// and task-history records.
func IsValidTaskEmployeeID(id string) bool {
	return taskEmployeeIDRe.MatchString(id)
}

// IsValidCompanyEmail reports whether email is a well-formed company address.
func IsValidCompanyEmail(email string) bool {
	return companyEmailRe.MatchString(email)
}

// Field is a named request value checked by RequireFields.
type Field struct {
	Name  string
	Value string
}

// RequireFields fails with a MissingField error naming the first empty field.
func RequireFields(fields ...Field) error {
	for _, f := range fields {
		if f.Value == "" {
			return errutil.MissingField(f.Name)
		}
	}
	return nil
}

// TaskEmployeeID returns an InvalidFormat error unless id passes the task
// predicate.
func TaskEmployeeID(id string) error {
	if !IsValidTaskEmployeeID(id) {
		return errutil.InvalidFormat("Invalid employee ID format. Expected format: ATS0XXX", errutil.WithField("employeeId"))
	}
	return nil
}

// LookupEmployeeID returns an InvalidFormat error unless id passes the lookup
// predicate.
func LookupEmployeeID(id string) error {
	if !IsValidLookupEmployeeID(id) {
		return errutil.InvalidFormat("Invalid employee ID format", errutil.WithField("empId"))
	}
	return nil
}

// CompanyEmail returns an InvalidFormat error unless email is a company address.
func CompanyEmail(email string) error {
	if !IsValidCompanyEmail(email) {
		return errutil.InvalidFormat("Invalid email format. Must be a valid @"+CompanyDomain+" address", errutil.WithField("email"))
	}
	return nil
}

// Date parses a YYYY-MM-DD value, naming field in the error.
func Date(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errutil.InvalidFormat("Invalid date format for "+field+". Expected YYYY-MM-DD", errutil.WithField(field))
	}
	return d, nil
}
