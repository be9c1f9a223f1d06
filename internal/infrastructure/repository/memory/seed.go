package memory

import (
	"time"

	"github.com/bagaspr/matchday/internal/domain/contract"
	"github.com/bagaspr/matchday/internal/domain/match"
)

const (
	SeasonIDLiga1Indonesia = "idn-liga-1-2025"

	TeamIDPersija   = "idn-persija"
	TeamIDPersib    = "idn-persib"
	TeamIDPersebaya = "idn-persebaya"
	TeamIDBaliUtd   = "idn-baliutd"
)

// SeedMatches returns a small opening-weeks slate: two finished results,
// one match in progress and one still to come. Enough to exercise the
// clock, the standings and the stats engine without a database.
func SeedMatches(now time.Time) []match.Match {
	preKickoff := match.PeriodPreKickoff
	firstHalf := match.PeriodFirstHalf
	fullTime := match.PeriodFullTime

	minute20 := 20
	persijaGoals, persibGoals := 2, 1
	persebayaGoals, baliGoals := 1, 1

	week1 := now.Add(-14 * 24 * time.Hour)
	week2 := now.Add(-7 * 24 * time.Hour)
	kicked := now.Add(-20 * time.Minute)
	ended1 := week1.Add(105 * time.Minute)
	ended2 := week2.Add(105 * time.Minute)

	return []match.Match{
		{
			ID:         "idn-0001",
			SeasonID:   SeasonIDLiga1Indonesia,
			HomeTeamID: TeamIDPersija,
			AwayTeamID: TeamIDPersib,
			Status:     match.StatusFinished,
			Period:     &fullTime,
			KickoffAt:  week1,
			HomeScore:  &persijaGoals,
			AwayScore:  &persibGoals,
			StartedAt:  &week1,
			EndedAt:    &ended1,
		},
		{
			ID:         "idn-0002",
			SeasonID:   SeasonIDLiga1Indonesia,
			HomeTeamID: TeamIDPersebaya,
			AwayTeamID: TeamIDBaliUtd,
			Status:     match.StatusFinished,
			Period:     &fullTime,
			KickoffAt:  week2,
			HomeScore:  &persebayaGoals,
			AwayScore:  &baliGoals,
			StartedAt:  &week2,
			EndedAt:    &ended2,
		},
		{
			ID:            "idn-0003",
			SeasonID:      SeasonIDLiga1Indonesia,
			HomeTeamID:    TeamIDPersija,
			AwayTeamID:    TeamIDPersebaya,
			Status:        match.StatusLive,
			Period:        &firstHalf,
			KickoffAt:     kicked,
			CurrentMinute: &minute20,
			StartedAt:     &kicked,
		},
		{
			ID:         "idn-0004",
			SeasonID:   SeasonIDLiga1Indonesia,
			HomeTeamID: TeamIDPersib,
			AwayTeamID: TeamIDBaliUtd,
			Status:     match.StatusScheduled,
			Period:     &preKickoff,
			KickoffAt:  now.Add(3 * 24 * time.Hour),
		},
	}
}

func SeedContracts(now time.Time) []contract.Contract {
	season := now.Add(-60 * 24 * time.Hour)

	return []contract.Contract{
		{ID: "ct-persija-gk", PlayerID: "idn-gk-01", TeamID: TeamIDPersija, IsCurrent: true, StartDate: season},
		{ID: "ct-persija-fwd", PlayerID: "idn-fwd-01", TeamID: TeamIDPersija, IsCurrent: true, StartDate: season},
		{ID: "ct-persib-gk", PlayerID: "idn-gk-02", TeamID: TeamIDPersib, IsCurrent: true, StartDate: season},
		{ID: "ct-persib-fwd", PlayerID: "idn-fwd-02", TeamID: TeamIDPersib, IsCurrent: true, StartDate: season},
		{ID: "ct-persebaya-mid", PlayerID: "idn-mid-03", TeamID: TeamIDPersebaya, IsCurrent: true, StartDate: season},
		{ID: "ct-baliutd-mid", PlayerID: "idn-mid-04", TeamID: TeamIDBaliUtd, IsCurrent: true, StartDate: season},
	}
}
