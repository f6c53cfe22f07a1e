package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskCompletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chorepoints_task_completions_total",
		Help: "Tasks completed on time.",
	})
	tasksRecurred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chorepoints_tasks_recurred_total",
		Help: "Done tasks flipped back to todo by the undo sweep.",
	})
	rewardRedemptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chorepoints_reward_redemptions_total",
		Help: "Rewards redeemed.",
	})
)
