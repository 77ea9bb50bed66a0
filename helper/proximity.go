package helper

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"queue_manager/config"
	"queue_manager/database"
	"queue_manager/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	proximityScheduler gocron.Scheduler
	redisClient        *redis.Client

	// fallback khi Redis không chạy, mất khi restart nhưng chỉ dẫn tới
	// một alert lặp chứ không mất alert
	lastAlertMu    sync.Mutex
	lastAlertLocal = make(map[uint]int64)

	// sau lỗi nặng (mất DB) tạm ngừng quét một lúc thay vì retry dồn dập
	backoffUntil time.Time
)

const proximityMarkerTTL = 6 * time.Hour

// ProximityBucket gom people-ahead vào các ngưỡng alert: 1, 3, 10.
// Trả về 0 khi còn quá xa, chưa cần báo.
func ProximityBucket(ahead int64) int64 {
	switch {
	case ahead <= 1:
		return 1
	case ahead <= 3:
		return 3
	case ahead <= 10:
		return 10
	default:
		return 0
	}
}

func ProximityMessage(ahead int64) string {
	switch {
	case ahead <= 1:
		return "You're next! Please get ready."
	case ahead <= 3:
		return fmt.Sprintf("Your turn is coming up! %d people ahead of you.", ahead)
	default:
		return fmt.Sprintf("You're in the queue. %d people ahead of you.", ahead)
	}
}

func lastSentBucket(ticketId uint) int64 {
	if redisClient != nil {
		val, err := redisClient.Get(context.Background(), proximityKey(ticketId)).Result()
		if err == nil {
			n, _ := strconv.ParseInt(val, 10, 64)
			return n
		}
		if err != redis.Nil {
			log.Printf("Redis read failed, using local markers: %v", err)
		} else {
			return 0
		}
	}
	lastAlertMu.Lock()
	defer lastAlertMu.Unlock()
	return lastAlertLocal[ticketId]
}

func storeSentBucket(ticketId uint, bucket int64) {
	if redisClient != nil {
		err := redisClient.Set(context.Background(), proximityKey(ticketId), strconv.FormatInt(bucket, 10), proximityMarkerTTL).Err()
		if err == nil {
			return
		}
		log.Printf("Redis write failed, using local markers: %v", err)
	}
	lastAlertMu.Lock()
	defer lastAlertMu.Unlock()
	lastAlertLocal[ticketId] = bucket
}

func proximityKey(ticketId uint) string {
	return fmt.Sprintf("proximity:last:%d", ticketId)
}

// CheckTicketProximity gửi alert nếu ticket vừa lọt vào ngưỡng sát hơn
// ngưỡng đã báo lần trước. Trả về true nếu có alert được tạo.
func CheckTicketProximity(db *gorm.DB, ticket *model.Ticket) (bool, error) {
	ahead, err := PeopleAhead(db, ticket)
	if err != nil {
		return false, err
	}

	bucket := ProximityBucket(ahead)
	if bucket == 0 {
		return false, nil
	}

	last := lastSentBucket(ticket.ID)
	if last != 0 && bucket >= last {
		return false, nil
	}

	err = SendSessionNotification(db, ticket.ID, ticket.SessionId, ProximityMessage(ahead), model.NotificationPositionAlert)
	if err != nil {
		return false, err
	}
	storeSentBucket(ticket.ID, bucket)
	return true, nil
}

// RunProximityScan quét mọi queue đang hoạt động, từng vé waiting theo position.
// Lỗi từng vé/queue chỉ log rồi đi tiếp, lỗi load queue thì backoff 60s.
func RunProximityScan(db *gorm.DB) {
	if time.Now().Before(backoffUntil) {
		return
	}

	var queues []model.Queue
	err := db.Where("active = ? AND is_deleted = ?", true, false).Find(&queues).Error
	if err != nil {
		log.Printf("Proximity scan failed to load queues, backing off: %v", err)
		backoffUntil = time.Now().Add(60 * time.Second)
		return
	}

	for _, queue := range queues {
		var tickets []model.Ticket
		err := db.Where("queue_id = ? AND status = ? AND is_deleted = ?", queue.ID, model.TicketWaiting, false).
			Order("position ASC").
			Find(&tickets).Error
		if err != nil {
			log.Printf("Proximity scan skipped queue %d: %v", queue.ID, err)
			continue
		}

		for i := range tickets {
			if _, err := CheckTicketProximity(db, &tickets[i]); err != nil {
				log.Printf("Proximity check failed for ticket %d: %v", tickets[i].ID, err)
			}
		}
	}
}

func StartProximityMonitor() {
	redisClient = redis.NewClient(&redis.Options{
		Addr: config.ConfigDefault("REDIS_ADDR", "localhost:6379"),
	})

	interval := 30 * time.Second
	if v := config.Config("PROXIMITY_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Second
		}
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	proximityScheduler = s

	// quét chậm hơn interval thì bỏ lượt kế, không cho hai lần quét chồng nhau
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Proximity scan panicked, backing off: %v", r)
					backoffUntil = time.Now().Add(60 * time.Second)
				}
			}()
			RunProximityScan(database.DB)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Printf("Proximity monitor started (every %s)", interval)
}

func StopProximityMonitor() {
	if proximityScheduler != nil {
		if err := proximityScheduler.Shutdown(); err != nil {
			log.Printf("Error stopping proximity monitor: %v", err)
		}
	}
	if redisClient != nil {
		redisClient.Close()
		redisClient = nil
	}
}
