package assignment

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

type Status int

const (
	UnknownStatus Status = iota
	Unassigned
	Assigned
	EnRoute
	Delivered
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unassigned: "unassigned",
		Assigned:   "assigned",
		EnRoute:    "en_route",
		Delivered:  "delivered",
		Failed:     "failed",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("assignment_status", fmt.Errorf("%q is not a valid assignment status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("assignment_status", fmt.Errorf("%d is not a valid assignment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// HasDriver reports whether a driver currently holds the delivery.
func (s Status) HasDriver() bool {
	return s == Assigned || s == EnRoute
}
