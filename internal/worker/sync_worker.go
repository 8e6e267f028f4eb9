package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cleanlog/internal/amqp"
	"cleanlog/internal/log"
	"cleanlog/internal/observability"
	"cleanlog/internal/sheets"
	"cleanlog/internal/storage"
)

// SyncWorker mirrors registered activities from the store into a sheet.
type SyncWorker struct {
	storage storage.ActivityGetter
	sheets  sheets.ActivityAppender

	mu     sync.Mutex
	synced map[int64]string // activity id -> sheet row ref
}

func NewSyncWorker(storage storage.ActivityGetter, sheets sheets.ActivityAppender) *SyncWorker {
	return &SyncWorker{
		storage: storage,
		sheets:  sheets,
		synced:  make(map[int64]string),
	}
}

// HandleActivityRegistered loads the activity named by msg and appends it to
// the sheet. Activities that no longer exist are skipped; any other failure is
// returned so the message is redelivered. Redeliveries of an activity already
// appended by this process are acknowledged without a second append.
func (w *SyncWorker) HandleActivityRegistered(ctx context.Context, msg *amqp.ActivityRegisteredMessage) error {
	slog.InfoContext(ctx, "Processing activity registered message",
		log.FieldComponent, log.ComponentWorker,
		log.FieldActivityID, msg.ID,
		log.FieldMessageID, msg.MessageID)

	if ref, ok := w.syncedRef(msg.ID); ok {
		slog.InfoContext(ctx, "Activity already synced, skipping",
			log.FieldComponent, log.ComponentWorker,
			log.FieldActivityID, msg.ID,
			log.FieldSheetsRef, ref)
		return nil
	}

	activity, err := w.storage.GetActivity(ctx, msg.ID)
	if errors.Is(err, storage.ErrActivityNotFound) {
		slog.WarnContext(ctx, "Activity not found, dropping message",
			log.FieldComponent, log.ComponentWorker,
			log.FieldActivityID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get activity from storage: %w", err)
	}

	ref, err := w.sheets.AppendActivity(ctx, activity)
	observability.RecordSheetAppend(err == nil)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	w.mu.Lock()
	w.synced[msg.ID] = ref
	w.mu.Unlock()

	slog.InfoContext(ctx, "Successfully synced activity",
		log.FieldComponent, log.ComponentWorker,
		log.FieldActivityID, msg.ID,
		log.FieldSheetsRef, ref,
		log.FieldApartmentCode, activity.Apartment.Code,
		log.FieldActivityType, string(activity.Type()))

	return nil
}

func (w *SyncWorker) syncedRef(id int64) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ref, ok := w.synced[id]
	return ref, ok
}
