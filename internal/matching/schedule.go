package matching

import (
	"fmt"
	"strconv"
	"strings"

	"matching-service/internal/models"
	"matching-service/internal/reference"
)

var weekdayKeys = map[string]string{
	"mon": "monday", "monday": "monday",
	"tue": "tuesday", "tues": "tuesday", "tuesday": "tuesday",
	"wed": "wednesday", "wednesday": "wednesday",
	"thu": "thursday", "thur": "thursday", "thurs": "thursday", "thursday": "thursday",
	"fri": "friday", "friday": "friday",
	"sat": "saturday", "saturday": "saturday",
	"sun": "sunday", "sunday": "sunday",
}

type interval struct {
	start int
	end   int
}

// parseMinutes converts "HH:MM" to minutes since midnight.
func parseMinutes(v string) (int, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed time %q", models.ErrValidation, v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: malformed hour in %q", models.ErrValidation, v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: malformed minute in %q", models.ErrValidation, v)
	}
	return h*60 + m, nil
}

func canonicalDay(day string) string {
	return weekdayKeys[reference.Canonical(day)]
}

// normalizeAvailability flattens either agent schedule shape into one
// interval per weekday. Malformed entries are skipped rather than failing
// the whole schedule; a day listed twice keeps its widest window.
func normalizeAvailability(av models.Availability) map[string]interval {
	out := make(map[string]interval)

	add := func(day, start, end string) {
		key := canonicalDay(day)
		if key == "" {
			return
		}
		s, err := parseMinutes(start)
		if err != nil {
			return
		}
		e, err := parseMinutes(end)
		if err != nil || e <= s {
			return
		}
		if existing, ok := out[key]; ok {
			if s > existing.start {
				s = existing.start
			}
			if e < existing.end {
				e = existing.end
			}
		}
		out[key] = interval{start: s, end: e}
	}

	for _, slot := range av.Slots {
		add(slot.Day, slot.Start, slot.End)
	}
	if len(av.Days) > 0 && av.Hours != nil {
		for _, day := range av.Days {
			add(day, av.Hours.Start, av.Hours.End)
		}
	}
	return out
}

// ScoreAvailability checks the gig's required weekday coverage against
// the agent schedule. Every required day must be present; a single absent
// day zeroes the dimension. For present days the agent window must fully
// contain the gig window.
func ScoreAvailability(agent *models.AgentProfile, gig *models.GigProfile) models.DimensionScore {
	ds := models.DimensionScore{}
	if len(gig.Schedule) == 0 {
		ds.Score = 0
		ds.Status = models.MatchStatusNone
		ds.Reason = "no schedule required"
		return ds
	}

	offered := normalizeAvailability(agent.Availability)

	required := 0
	contained := 0
	missingDay := false

	for _, slot := range gig.Schedule {
		day := canonicalDay(slot.Day)
		if day == "" {
			ds.Score = 0
			ds.Status = models.MatchStatusNone
			ds.Reason = fmt.Sprintf("unrecognized weekday %q in gig schedule", slot.Day)
			return ds
		}
		required++

		window, ok := offered[day]
		if !ok {
			missingDay = true
			ds.Missing = append(ds.Missing, day)
			continue
		}

		gigStart, err := parseMinutes(slot.Start)
		if err != nil {
			ds.Score = 0
			ds.Status = models.MatchStatusNone
			ds.Reason = err.Error()
			return ds
		}
		gigEnd, err := parseMinutes(slot.End)
		if err != nil {
			ds.Score = 0
			ds.Status = models.MatchStatusNone
			ds.Reason = err.Error()
			return ds
		}

		if window.start <= gigStart && window.end >= gigEnd {
			contained++
			ds.Matched = append(ds.Matched, day)
		} else {
			ds.Insufficient = append(ds.Insufficient, fmt.Sprintf("%s (%s-%s not covered)", day, slot.Start, slot.End))
		}
	}

	// No partial credit when any required day is absent entirely.
	if missingDay {
		ds.Score = 0
		ds.Status = models.MatchStatusNone
		ds.Reason = "required days absent from agent schedule"
		return ds
	}

	ds.Score = float64(contained) / float64(required)
	switch {
	case ds.Score == 1.0:
		ds.Status = models.MatchStatusPerfect
	case ds.Score > 0:
		ds.Status = models.MatchStatusPartial
	default:
		ds.Status = models.MatchStatusNone
	}
	return ds
}
