package helper

import (
	"queue_manager/model"

	"gorm.io/gorm"
)

// QueueNameForIndex đổi số thứ tự 1-based sang tên cột kiểu Excel: 1=A, 26=Z, 27=AA
func QueueNameForIndex(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// GenerateQueueName chọn tên trống đầu tiên trong dãy A..Z, AA.. của event
func GenerateQueueName(existing []model.Queue) string {
	used := make(map[string]bool, len(existing))
	for _, q := range existing {
		used[q.Name] = true
	}
	for i := 1; ; i++ {
		name := QueueNameForIndex(i)
		if !used[name] {
			return name
		}
	}
}

// QueueWaitingCounts đếm vé waiting chưa xoá của từng queue trong một query,
// chạy trong tx của caller nên các queue cùng một snapshot
func QueueWaitingCounts(tx *gorm.DB, queueIds []uint) (map[uint]int64, error) {
	type row struct {
		QueueId uint
		Total   int64
	}
	var rows []row
	err := tx.Model(&model.Ticket{}).
		Select("queue_id, COUNT(*) AS total").
		Where("queue_id IN ? AND is_deleted = ? AND status = ?", queueIds, false, model.TicketWaiting).
		Group("queue_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(queueIds))
	for _, id := range queueIds {
		counts[id] = 0
	}
	for _, r := range rows {
		counts[r.QueueId] = r.Total
	}
	return counts, nil
}

// FindLeastLoadedQueue chọn queue ít vé waiting nhất,
// bằng nhau thì lấy queue có current_position nhỏ hơn
func FindLeastLoadedQueue(tx *gorm.DB, queues []model.Queue) (*model.Queue, error) {
	candidates := make([]model.Queue, 0, len(queues))
	ids := make([]uint, 0, len(queues))
	for _, q := range queues {
		if !q.Active || q.IsDeleted {
			continue
		}
		candidates = append(candidates, q)
		ids = append(ids, q.ID)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	counts, err := QueueWaitingCounts(tx, ids)
	if err != nil {
		return nil, err
	}

	best := candidates[0]
	for _, q := range candidates[1:] {
		load, bestLoad := counts[q.ID], counts[best.ID]
		if load < bestLoad || (load == bestLoad && q.CurrentPosition < best.CurrentPosition) {
			best = q
		}
	}
	return &best, nil
}
