package queries

import (
	"context"
	"fmt"

	"github.com/mars-sim/mars-sim-sub055/internal/application/mediator"
	"github.com/mars-sim/mars-sim-sub055/internal/application/scheduling"
	"github.com/mars-sim/mars-sim-sub055/internal/domain/settlement"
)

// ListCandidatesQuery lists a settlement's current candidates, optionally
// scored for one worker
type ListCandidatesQuery struct {
	SettlementID string
	WorkerID     string
}

// CandidateView is a printable candidate
type CandidateView struct {
	Meta     string
	Name     string
	Building string
	Demand   int
	Base     float64
	// Score and Ledger are set when the query names a worker
	Score  float64
	Ledger string
}

// ListCandidatesResponse carries the candidates, best first when scored
type ListCandidatesResponse struct {
	Settlement string
	Candidates []CandidateView
}

// ListCandidatesHandler handles the ListCandidates query
type ListCandidatesHandler struct {
	runner *scheduling.Runner
}

// NewListCandidatesHandler creates a new ListCandidatesHandler
func NewListCandidatesHandler(runner *scheduling.Runner) *ListCandidatesHandler {
	return &ListCandidatesHandler{runner: runner}
}

// Handle executes the ListCandidates query
func (h *ListCandidatesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListCandidatesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListCandidatesQuery")
	}

	var (
		resp    *ListCandidatesResponse
		findErr error
	)
	found := h.runner.WithSettlement(query.SettlementID, func(s *settlement.Settlement) {
		resp = &ListCandidatesResponse{Settlement: s.Name()}
		broker := h.runner.Broker()

		if query.WorkerID == "" {
			for _, t := range broker.SettlementTasks(ctx, s) {
				resp.Candidates = append(resp.Candidates, candidateView(t.Meta().ID(), t.Name(), t.Building(), t.Demand(), t.Score().Value()))
			}
			return
		}

		w := s.Worker(query.WorkerID)
		if w == nil {
			findErr = fmt.Errorf("worker %s not found in %s", query.WorkerID, s.Name())
			return
		}
		for _, r := range broker.RankTasks(ctx, s, w) {
			v := candidateView(r.Task.Meta().ID(), r.Task.Name(), r.Task.Building(), r.Task.Demand(), r.Task.Score().Value())
			v.Score = r.Score.Value()
			v.Ledger = r.Score.String()
			resp.Candidates = append(resp.Candidates, v)
		}
	})
	if !found {
		return nil, fmt.Errorf("settlement %s not found", query.SettlementID)
	}
	if findErr != nil {
		return nil, findErr
	}
	return resp, nil
}

func candidateView(meta, name string, b *settlement.Building, demand int, base float64) CandidateView {
	v := CandidateView{Meta: meta, Name: name, Demand: demand, Base: base}
	if b != nil {
		v.Building = b.Name()
	}
	return v
}
