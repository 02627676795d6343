package services

import (
	"math"
	"time"

	"pacelineAPI/internal/types/challenge"
)

// IDSource mints a globally unique identifier per call. Production wiring
// uses uuid.NewString; tests inject a counter.
type IDSource func() string

const (
	dayStartSuffix = "T00:00:00"
	dayEndSuffix   = "T23:59:59"
	dateLayout     = "2006-01-02"
)

// GenerateChallenges derives one challenge per (bucket, user, template),
// skipping the new-user bucket. No I/O happens here; output order is
// bucket order, then user order within the bucket, then catalog order,
// which keeps the batch layout in the write phase reproducible.
func GenerateChallenges(seasonID string, startDate time.Time, buckets []challenge.Bucket, templates []challenge.Template, newID IDSource) []challenge.Challenge {
	total := 0
	for _, b := range buckets {
		if b.BucketID == challenge.SentinelBucketID {
			continue
		}
		total += len(b.Users) * len(templates)
	}

	out := make([]challenge.Challenge, 0, total)
	for _, b := range buckets {
		if b.BucketID == challenge.SentinelBucketID {
			continue
		}
		for _, userID := range b.Users {
			for _, tpl := range templates {
				out = append(out, buildChallenge(seasonID, startDate, b, userID, tpl, newID()))
			}
		}
	}
	return out
}

func buildChallenge(seasonID string, startDate time.Time, b challenge.Bucket, userID string, tpl challenge.Template, id string) challenge.Challenge {
	// Skill is in km per skill unit; snap the meter target to the nearest 10.
	target := math.Round(b.AverageSkill*tpl.DistanceFactor*1000/10) * 10

	// Scale by 10 before rounding, then divide by 1000. The order of
	// operations is observable in the rounded result and is part of the
	// points contract.
	points := math.Round(target*tpl.RewardFactor*10) / 1000

	start := startDate.AddDate(0, 0, tpl.DaysFromStart)

	var end time.Time
	if tpl.Duration == -1 {
		end = endOfMonth(start)
	} else {
		end = start.AddDate(0, 0, tpl.Duration-1)
	}

	return challenge.Challenge{
		UserID:          userID,
		ChallengeID:     id,
		CompletedMeters: 0,
		StartDate:       start.Format(dateLayout) + dayStartSuffix,
		EndDate:         end.Format(dateLayout) + dayEndSuffix,
		Status:          challenge.StatusCurrent,
		TargetMeters:    target,
		TemplateID:      tpl.TemplateID,
		Points:          points,
		SeasonID:        seasonID,
		BucketID:        b.BucketID,
	}
}

// endOfMonth returns the last calendar day of t's month. Day zero of the
// next month normalizes backwards.
func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}
