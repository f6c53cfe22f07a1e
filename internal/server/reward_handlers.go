package server

import (
	"net/http"

	"chorepoints/internal/model"
	"chorepoints/internal/service"
)

type rewardBody struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

type rewardResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

func toRewardResponse(rw *model.Reward) rewardResponse {
	return rewardResponse{ID: rw.ID, Name: rw.Name, Description: rw.Description, Cost: rw.Cost}
}

func (s *Server) handleCreateReward(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	var body rewardBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	reward, err := s.rewards.Create(r.Context(), user.ID, service.RewardInput{
		Name:        body.Name,
		Description: body.Description,
		Cost:        body.Cost,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRewardResponse(reward))
}

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	rewards, err := s.rewards.List(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]rewardResponse, 0, len(rewards))
	for i := range rewards {
		out = append(out, toRewardResponse(&rewards[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetReward(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reward, err := s.rewards.Get(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardResponse(reward))
}

func (s *Server) handleUpdateReward(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body rewardBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	reward, err := s.rewards.Update(r.Context(), user.ID, id, service.RewardInput{
		Name:        body.Name,
		Description: body.Description,
		Cost:        body.Cost,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardResponse(reward))
}

func (s *Server) handleDeleteReward(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.rewards.Delete(r.Context(), user.ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRedeemReward(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	balance, err := s.rewards.Redeem(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rewardRedemptions.Inc()
	writeJSON(w, http.StatusOK, map[string]int{"points": balance})
}
