package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"cp_journey/internal/app/service"
	"cp_journey/internal/domain/repository"
	"cp_journey/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AutoSyncWorker runs the periodic platform sync. A scheduler goroutine
// enqueues every user with linked handles onto a Redis list once per
// interval; the worker loop pops user IDs and syncs them one at a time
// under a per-user lock. The sync core itself owns no timers.
type AutoSyncWorker struct {
	rdb            *redis.Client
	journeyRepo    repository.JourneyRepository
	syncService    *service.SyncService
	journeyService *service.JourneyService
}

func NewAutoSyncWorker(
	rdb *redis.Client,
	journeyRepo repository.JourneyRepository,
	syncService *service.SyncService,
	journeyService *service.JourneyService,
) *AutoSyncWorker {
	return &AutoSyncWorker{
		rdb:            rdb,
		journeyRepo:    journeyRepo,
		syncService:    syncService,
		journeyService: journeyService,
	}
}

// StartScheduler enqueues all syncable users every configured interval.
func (w *AutoSyncWorker) StartScheduler(ctx context.Context) {
	interval := time.Duration(config.AppConfig.AutoSyncIntervalMin) * time.Minute
	log.Printf("Auto-sync scheduler started, interval: %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Auto-sync scheduler stopping...")
			return
		case <-ticker.C:
			w.enqueueAll(ctx)
		}
	}
}

func (w *AutoSyncWorker) enqueueAll(ctx context.Context) {
	userIDs, err := w.journeyRepo.ListUserIDsWithHandles(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to list users for auto-sync: %v", err)
		return
	}
	for _, id := range userIDs {
		if err := w.rdb.RPush(ctx, config.AppConfig.SyncQueueName, id).Err(); err != nil {
			log.Printf("ERROR: Failed to enqueue user %s for auto-sync: %v", id, err)
		}
	}
	log.Printf("Auto-sync: enqueued %d users", len(userIDs))
}

// Start consumes the sync queue until the context is cancelled.
func (w *AutoSyncWorker) Start(ctx context.Context) {
	log.Println("Auto-sync worker started, listening to queue:", config.AppConfig.SyncQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Auto-sync worker stopping...")
			return
		default:
			entry, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.SyncQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from queue '%s': %v", config.AppConfig.SyncQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// entry is [queueName, value]
			if len(entry) < 2 || entry[1] == "" {
				log.Println("WARN: BRPop returned empty user ID.")
				continue
			}
			w.processUserWithLock(ctx, entry[1])
		}
	}
}

// processUserWithLock guards against two concurrent syncs of the same user
// stomping each other's read-modify-write on the journey record.
func (w *AutoSyncWorker) processUserWithLock(ctx context.Context, userID string) {
	lockKey := config.AppConfig.SyncLockPrefix + userID
	lockValue := uuid.NewString()
	lockTTL := time.Duration(config.AppConfig.SyncLockTTLSeconds) * time.Second

	ok, err := w.rdb.SetNX(ctx, lockKey, lockValue, lockTTL).Result()
	if err != nil {
		log.Printf("ERROR: Failed to attempt sync lock for user %s: %v", userID, err)
		return
	}
	if !ok {
		log.Printf("INFO: Sync already in flight for user %s, skipping.", userID)
		return
	}

	defer func() {
		// Release only if we still hold the lock (CAS delete).
		script := redis.NewScript(`
            if redis.call("get", KEYS[1]) == ARGV[1] then
                return redis.call("del", KEYS[1])
            else
                return 0
            end
        `)
		if _, err := script.Run(ctx, w.rdb, []string{lockKey}, lockValue).Result(); err != nil {
			log.Printf("ERROR: Failed to release sync lock for user %s: %v", userID, err)
		}
	}()

	w.syncUser(ctx, userID)
}

func (w *AutoSyncWorker) syncUser(ctx context.Context, userID string) {
	record, err := w.journeyRepo.Get(ctx, userID)
	if err != nil {
		log.Printf("ERROR: Failed to load journey for user %s: %v", userID, err)
		return
	}
	if record.Handles.Empty() {
		return
	}

	resp, err := w.syncService.SyncAll(ctx, record.Handles)
	if err != nil {
		log.Printf("ERROR: Auto-sync rejected for user %s: %v", userID, err)
		return
	}

	snapshot := w.syncService.Aggregate(resp.Results)
	if _, err := w.journeyService.ApplySnapshot(ctx, userID, snapshot, true); err != nil {
		log.Printf("ERROR: Failed to apply auto-sync snapshot for user %s: %v", userID, err)
		return
	}
	log.Printf("INFO: Auto-sync completed for user %s", userID)
}
