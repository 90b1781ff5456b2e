package handlers

import (
	"log"
	"net/http"

	"coffee-proximity-service/internal/api/dto"
	"coffee-proximity-service/internal/ports"
	"coffee-proximity-service/internal/services"
)

// SyncHandler triggers ingestion runs and reports sync state. Scheduling is
// external; this endpoint is the hook a cron or operator calls.
type SyncHandler struct {
	Sync *services.Synchronizer
	Repo ports.ShopRepository
}

func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	summary := h.Sync.Run(r.Context())

	status := http.StatusOK
	if summary.StoreErr != nil {
		log.Printf("sync run store failure: %v", summary.StoreErr)
		status = http.StatusInternalServerError
	}

	writeJSON(w, r, status, dto.SyncResponse{
		Fetched:  summary.Fetched,
		Parsed:   summary.Parsed,
		Upserted: summary.Upserted,
	})
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ts, err := h.Repo.MaxUpdatedAt(r.Context())
	if err != nil {
		log.Printf("sync status failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SyncStatusResponse{LastSyncedAt: ts})
}
