package helper

import (
	"sort"

	"queue_manager/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockQueue giữ row queue FOR UPDATE để hai request cùng lúc không đọc
// trùng max(position). SQLite (test) chỉ có một writer nên bỏ qua clause.
func LockQueue(tx *gorm.DB, queueId uint) (*model.Queue, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var queue model.Queue
	if err := query.Where("id = ? AND is_deleted = ?", queueId, false).First(&queue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &queue, nil
}

// NextPosition trả về max(position)+1 trong queue, tính trên các vé chưa xoá.
// Caller phải gọi LockQueue trước và insert trong cùng transaction.
func NextPosition(tx *gorm.DB, queueId uint) (int, error) {
	var last *int
	err := tx.Model(&model.Ticket{}).
		Select("MAX(position)").
		Where("queue_id = ? AND is_deleted = ?", queueId, false).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 1, nil
	}
	return *last + 1, nil
}

// RenumberInto gộp các vé moved vào queue đích: toàn bộ vé (cũ + moved) được
// sắp theo created_at tăng dần và đánh lại position 1..N. Vé moved nhận
// queue_id mới và quay về trạng thái waiting.
func RenumberInto(tx *gorm.DB, targetQueueId uint, moved []model.Ticket) error {
	var existing []model.Ticket
	err := tx.Where("queue_id = ? AND is_deleted = ?", targetQueueId, false).
		Order("created_at ASC").
		Find(&existing).Error
	if err != nil {
		return err
	}

	movedIds := make(map[uint]bool, len(moved))
	for _, t := range moved {
		movedIds[t.ID] = true
	}

	all := make([]model.Ticket, 0, len(existing)+len(moved))
	for _, t := range existing {
		if !movedIds[t.ID] {
			all = append(all, t)
		}
	}
	all = append(all, moved...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	for i := range all {
		updates := map[string]interface{}{"position": i + 1}
		if movedIds[all[i].ID] {
			updates["queue_id"] = targetQueueId
			updates["status"] = model.TicketWaiting
		}
		if err := tx.Model(&model.Ticket{}).Where("id = ?", all[i].ID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// PeopleAhead đếm vé cùng queue đứng trước (position nhỏ hơn) còn waiting/called
func PeopleAhead(tx *gorm.DB, ticket *model.Ticket) (int64, error) {
	var count int64
	err := tx.Model(&model.Ticket{}).
		Where("queue_id = ? AND position < ? AND is_deleted = ? AND status IN ?",
			ticket.QueueId, ticket.Position, false, []string{model.TicketWaiting, model.TicketCalled}).
		Count(&count).Error
	return count, err
}
