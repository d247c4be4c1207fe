package scraper

import (
	"regexp"

	apierrors "gsrcli/internal/errors"
)

var termPattern = regexp.MustCompile(`^\d{6}$`)

// JobParams are the SWRCGSR submission parameters. Banner treats "%" as a
// wildcard, so every filter defaults to it; only the term is mandatory.
type JobParams struct {
	Term            string
	School          string
	Department      string
	Subject         string
	Campus          string
	Session         string
	CreateMergeFile string
	ScheduleType    string
	Level           string

	// IncludeCancelled widens the status filter from active-only to all
	// section states.
	IncludeCancelled bool
}

// NewJobParams returns the wildcard parameter set for one term.
func NewJobParams(term string) JobParams {
	return JobParams{
		Term:            term,
		School:          "%",
		Department:      "%",
		Subject:         "%",
		Campus:          "%",
		Session:         "%",
		CreateMergeFile: "N",
		ScheduleType:    "%",
		Level:           "%",
	}
}

// Status returns the section-status filter the job submits.
func (p JobParams) Status() string {
	if p.IncludeCancelled {
		return "%"
	}
	return "A"
}

// Validate checks the parameter set before a browser session is spent on it.
func (p JobParams) Validate() error {
	if !termPattern.MatchString(p.Term) {
		return apierrors.NewAppError(apierrors.ErrTypeValidation,
			"term must be a 6-digit term code", nil).WithContext("term", p.Term)
	}
	return nil
}

// fieldSequence returns the parameter values in the order the SWRCGSR form
// tabs through them.
func (p JobParams) fieldSequence() []string {
	return []string{
		p.Term,
		p.Subject,
		p.School,
		p.Department,
		p.Campus,
		p.Status(),
		p.Session,
		p.CreateMergeFile,
		p.ScheduleType,
		p.Level,
	}
}
