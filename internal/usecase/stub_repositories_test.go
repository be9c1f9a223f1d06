package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bagaspr/matchday/internal/domain/contract"
	"github.com/bagaspr/matchday/internal/domain/job"
	"github.com/bagaspr/matchday/internal/domain/match"
	"github.com/bagaspr/matchday/internal/domain/matchevent"
	"github.com/bagaspr/matchday/internal/domain/playerstat"
	"github.com/bagaspr/matchday/internal/domain/standing"
)

type stubMatchRepository struct {
	mu        sync.Mutex
	byID      map[string]match.Match
	updateErr map[string]error
	updates   map[string][]match.Update
}

func newStubMatchRepository(items ...match.Match) *stubMatchRepository {
	repo := &stubMatchRepository{
		byID:    make(map[string]match.Match, len(items)),
		updates: make(map[string][]match.Update),
	}
	for _, item := range items {
		repo.byID[item.ID] = item
	}
	return repo
}

func (s *stubMatchRepository) Create(_ context.Context, item match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	return nil
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[matchID]
	return item, ok, nil
}

func (s *stubMatchRepository) ListByStatus(_ context.Context, status match.Status) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []match.Match
	for _, item := range s.byID {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubMatchRepository) ListFinishedBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []match.Match
	for _, item := range s.byID {
		if item.SeasonID == seasonID && item.Status == match.StatusFinished {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubMatchRepository) ApplyUpdate(_ context.Context, matchID string, update match.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[matchID]; err != nil {
		return err
	}

	item, ok := s.byID[matchID]
	if !ok {
		return nil
	}
	if update.Status != nil {
		item.Status = *update.Status
	}
	if update.Period != nil {
		item.Period = update.Period
	}
	if update.CurrentMinute != nil {
		item.CurrentMinute = update.CurrentMinute
	}
	if update.HomeScore != nil {
		item.HomeScore = update.HomeScore
	}
	if update.AwayScore != nil {
		item.AwayScore = update.AwayScore
	}
	if update.StartedAt != nil {
		item.StartedAt = update.StartedAt
	}
	if update.EndedAt != nil {
		item.EndedAt = update.EndedAt
	}
	if update.KickoffAt != nil {
		item.KickoffAt = *update.KickoffAt
	}
	s.byID[matchID] = item
	s.updates[matchID] = append(s.updates[matchID], update)
	return nil
}

func (s *stubMatchRepository) get(matchID string) match.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[matchID]
}

func (s *stubMatchRepository) updatesFor(matchID string) []match.Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates[matchID]
}

type stubEventRepository struct {
	mu     sync.Mutex
	events []matchevent.Event
}

func (s *stubEventRepository) Append(_ context.Context, event matchevent.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *stubEventRepository) ListByMatch(_ context.Context, matchID string, filter matchevent.Filter) ([]matchevent.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []matchevent.Event
	for _, event := range s.events {
		if event.MatchID != matchID {
			continue
		}
		if filter.Type != "" && event.Type != filter.Type {
			continue
		}
		if filter.PlayerID != "" && (event.PlayerID == nil || *event.PlayerID != filter.PlayerID) {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

type stubContractRepository struct {
	byTeam map[string][]contract.Contract
}

func (s *stubContractRepository) ListCurrentByTeam(_ context.Context, teamID string) ([]contract.Contract, error) {
	var out []contract.Contract
	for _, c := range s.byTeam[teamID] {
		if c.IsCurrent {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubStandingRepository struct {
	mu   sync.Mutex
	rows map[string]map[string]standing.Standing
}

func newStubStandingRepository() *stubStandingRepository {
	return &stubStandingRepository{rows: make(map[string]map[string]standing.Standing)}
}

func (s *stubStandingRepository) ListBySeason(_ context.Context, seasonID string) ([]standing.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []standing.Standing
	for _, row := range s.rows[seasonID] {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (s *stubStandingRepository) UpsertAll(_ context.Context, seasonID string, rows []standing.Standing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	season := s.rows[seasonID]
	if season == nil {
		season = make(map[string]standing.Standing)
		s.rows[seasonID] = season
	}
	for _, row := range rows {
		season[row.TeamID] = row
	}
	return nil
}

func (s *stubStandingRepository) PatchDeduction(_ context.Context, seasonID, teamID string, deduction int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	season := s.rows[seasonID]
	if season == nil {
		season = make(map[string]standing.Standing)
		s.rows[seasonID] = season
	}
	row := season[teamID]
	row.SeasonID = seasonID
	row.TeamID = teamID
	row.PointsDeduction = deduction
	season[teamID] = row
	return nil
}

type stubPlayerStatRepository struct {
	mu   sync.Mutex
	rows map[string]playerstat.SeasonStat
}

func newStubPlayerStatRepository() *stubPlayerStatRepository {
	return &stubPlayerStatRepository{rows: make(map[string]playerstat.SeasonStat)}
}

func statKey(playerID, seasonID, teamID string) string {
	return playerID + "|" + seasonID + "|" + teamID
}

func (s *stubPlayerStatRepository) Get(_ context.Context, playerID, seasonID, teamID string) (playerstat.SeasonStat, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[statKey(playerID, seasonID, teamID)]
	return row, ok, nil
}

func (s *stubPlayerStatRepository) ListBySeasonAndPlayer(_ context.Context, seasonID, playerID string) ([]playerstat.SeasonStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []playerstat.SeasonStat
	for _, row := range s.rows {
		if row.SeasonID == seasonID && row.PlayerID == playerID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (s *stubPlayerStatRepository) Upsert(_ context.Context, row playerstat.SeasonStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[statKey(row.PlayerID, row.SeasonID, row.TeamID)] = row
	return nil
}

func (s *stubPlayerStatRepository) Accumulate(_ context.Context, row playerstat.SeasonStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statKey(row.PlayerID, row.SeasonID, row.TeamID)
	existing, ok := s.rows[key]
	if !ok {
		s.rows[key] = row
		return nil
	}
	existing.Appearances += row.Appearances
	existing.Goals += row.Goals
	existing.MinutesPlayed += row.MinutesPlayed
	existing.LastComputedAt = row.LastComputedAt
	s.rows[key] = existing
	return nil
}

type stubJobRepository struct {
	mu   sync.Mutex
	jobs []job.Job
}

func (s *stubJobRepository) Enqueue(_ context.Context, item job.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.jobs {
		if existing.Status == job.StatusQueued && existing.DedupKey == item.DedupKey {
			return nil
		}
	}
	s.jobs = append(s.jobs, item)
	return nil
}

func (s *stubJobRepository) ClaimDue(_ context.Context, now time.Time, limit int) ([]job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var claimed []job.Job
	for i := range s.jobs {
		if len(claimed) >= limit {
			break
		}
		if s.jobs[i].Status == job.StatusQueued && !s.jobs[i].NextRunAt.After(now) {
			s.jobs[i].Status = job.StatusRunning
			s.jobs[i].Attempts++
			claimed = append(claimed, s.jobs[i])
		}
	}
	return claimed, nil
}

func (s *stubJobRepository) MarkDone(_ context.Context, jobID string) error {
	return s.setStatus(jobID, job.StatusDone, "", time.Time{})
}

func (s *stubJobRepository) MarkFailed(_ context.Context, jobID string, jobErr string, retryAt time.Time, dead bool) error {
	status := job.StatusQueued
	if dead {
		status = job.StatusDead
	}
	return s.setStatus(jobID, status, jobErr, retryAt)
}

func (s *stubJobRepository) Release(_ context.Context, jobID string) error {
	return s.setStatus(jobID, job.StatusQueued, "", time.Time{})
}

func (s *stubJobRepository) ListByStatus(_ context.Context, status job.Status) ([]job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []job.Job
	for _, item := range s.jobs {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubJobRepository) setStatus(jobID string, status job.Status, jobErr string, retryAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID != jobID {
			continue
		}
		s.jobs[i].Status = status
		s.jobs[i].LastError = jobErr
		if !retryAt.IsZero() {
			s.jobs[i].NextRunAt = retryAt
		}
	}
	return nil
}
