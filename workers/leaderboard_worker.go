package workers

import (
	"context"
	"log"
	"time"

	"eco-rewards-system/services"
)

// PollLeaderboard runs the leaderboard liveliness tick: every interval, the
// synthetic seed users drift upward by a few points so the board feels alive.
// The real users' points are never touched — the perturbation is scoped to
// synthetic rows at the query level.
func PollLeaderboard(ctx context.Context, svc *services.LeaderboardService, pollInterval time.Duration) {
	log.Println("Starting leaderboard liveliness ticker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard ticker stopped.")
			return
		case <-ticker.C:
			if err := svc.PerturbSyntheticPoints(); err != nil {
				log.Printf("❌ Leaderboard tick failed: %v", err)
			}
		}
	}
}
