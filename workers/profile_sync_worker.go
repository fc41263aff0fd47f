// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"eco-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredProfile matches the JSON response from the profile sync service.
type MirroredProfile struct {
	ID                string    `json:"id"`
	ExternalID        string    `json:"external_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	City              *string   `json:"city,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetProfileChangesResponse is the top-level structure of the sync service response.
type GetProfileChangesResponse struct {
	Profiles []MirroredProfile `json:"profiles"`
}

// ProfileSyncWorker mirrors identities from the profile service into eco_users.
// First-seen identities get a zeroed ledger record; existing ledger fields
// (points, streak, impact) are never overwritten by a sync.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile-service → eco_users)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastSync := time.Now().UTC()
	for {
		select {
		case <-ctx.Done():
			log.Println("Profile sync worker stopped.")
			return
		case <-ticker.C:
			batchStart := time.Now().UTC()
			if err := w.syncBatch(ctx, lastSync); err != nil {
				log.Printf("❌ Profile sync failed: %v", err)
				// Do NOT advance lastSync on failure — retry same window next tick
				continue
			}
			lastSync = batchStart
		}
	}
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	profiles, err := w.fetchChangedProfiles(ctx, since)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	users := make([]models.EcoUser, 0, len(profiles))
	for _, p := range profiles {
		u := models.EcoUser{
			ID:             uuid.NewString(),
			ExternalUserID: p.ExternalID,
			Name:           p.Name,
			Email:          p.Email,
			AvatarURL:      "https://placehold.co/100x100.png",
			Level:          1,
		}
		if p.City != nil {
			u.City = *p.City
		}
		if p.ProfilePictureURL != nil {
			u.AvatarURL = *p.ProfilePictureURL
		}
		users = append(users, u)
	}

	// Upsert profile fields only — ledger accumulators stay untouched.
	if err := w.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"email",
				"city",
				"avatar_url",
				"updated_at",
			}),
		},
	).Create(&users).Error; err != nil {
		return fmt.Errorf("failed to upsert %d profile(s): %w", len(users), err)
	}

	log.Printf("✅ Upserted %d profile(s) into eco_users.", len(users))
	return nil
}

func (w *ProfileSyncWorker) fetchChangedProfiles(ctx context.Context, since time.Time) ([]MirroredProfile, error) {
	u, err := url.Parse(fmt.Sprintf("%s%s", w.baseURL, w.endpointPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GetProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode sync service response: %w", err)
	}

	return response.Profiles, nil
}
