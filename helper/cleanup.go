package helper

import (
	"log"
	"time"

	"queue_manager/database"
	"queue_manager/model"

	"github.com/robfig/cron/v3"
)

var cleanupScheduler *cron.Cron

// PurgeSentNotifications xoá notification đã gửi quá 7 ngày khỏi outbox
func PurgeSentNotifications() {
	cutoff := time.Now().AddDate(0, 0, -7)
	result := database.DB.
		Where("is_sent = ? AND sent_at < ?", true, cutoff).
		Delete(&model.Notification{})

	if result.Error != nil {
		log.Printf("Error purging notifications: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Purged %d sent notifications", result.RowsAffected)
	}
}

func StartCleanupScheduler() {
	cleanupScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	// 03:00 hàng ngày
	_, err := cleanupScheduler.AddFunc("0 3 * * *", PurgeSentNotifications)
	if err != nil {
		log.Printf("Error starting cleanup scheduler: %v", err)
		return
	}

	cleanupScheduler.Start()
	log.Println("Notification cleanup scheduler started (daily 03:00)")
}

func StopCleanupScheduler() {
	if cleanupScheduler != nil {
		cleanupScheduler.Stop()
	}
}
