package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
)

// EligibleClasses computes, for the caller's identity at the given
// instant, which classes may have attendance taken.
//
// Administrators see every class, always eligible. Teachers see only
// their own classes scheduled on now's weekday; each is flagged
// eligible when now falls inside the class window, both ends inclusive.
// A class missing either bound is listed but never eligible. Any other
// role is rejected.
func (svc *Service) EligibleClasses(ctx context.Context, ident user.Identity, now time.Time) ([]ClassEligibility, error) {
	switch {
	case ident.IsAdmin():
		classes, _, err := svc.acaRepo.FilterClasses(ctx, academics.QueryFilter{}, core.Pagination{All: true})
		if err != nil {
			return nil, errors.Wrap(err, "listing classes")
		}
		out := make([]ClassEligibility, 0, len(classes))
		for _, cls := range classes {
			el := ClassEligibility{Class: cls, EligibleNow: true}
			el.WindowStart, el.WindowEnd, _ = classWindow(cls)
			out = append(out, el)
		}
		return out, nil

	case ident.HasAnyRole(user.RoleTeacher):
		tch, err := svc.acaRepo.GetTeacherByUserID(ctx, ident.User.ID)
		if err != nil {
			if errors.Cause(err) == academics.ErrTeacherNotFound {
				return nil, ErrTeacherNotProvisioned
			}
			return nil, errors.Wrap(err, "resolving teacher profile")
		}
		classes, err := svc.acaRepo.QueryClassesByTeacherAndWeekday(ctx, tch.ID, academics.WeekdayName(now))
		if err != nil {
			return nil, errors.Wrap(err, "listing teacher classes")
		}
		nowMin := now.Hour()*60 + now.Minute()
		out := make([]ClassEligibility, 0, len(classes))
		for _, cls := range classes {
			el := ClassEligibility{Class: cls}
			start, end, ok := classWindow(cls)
			if ok {
				el.WindowStart, el.WindowEnd = start, end
				startMin, _ := academics.ParseClockMinutes(start)
				endMin, _ := academics.ParseClockMinutes(end)
				el.EligibleNow = startMin <= nowMin && nowMin <= endMin
			}
			out = append(out, el)
		}
		return out, nil
	}
	return nil, ErrForbidden
}

// classWindow returns the class window as "HH:MM" bounds; ok is false
// when either bound is missing or malformed.
func classWindow(cls academics.Class) (start, end string, ok bool) {
	if cls.StartTime == nil || cls.EndTime == nil {
		return "", "", false
	}
	start = academics.FormatClock(*cls.StartTime)
	end = academics.FormatClock(*cls.EndTime)
	if _, err := academics.ParseClockMinutes(start); err != nil {
		return "", "", false
	}
	if _, err := academics.ParseClockMinutes(end); err != nil {
		return "", "", false
	}
	return start, end, true
}
