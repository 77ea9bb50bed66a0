package helper

import (
	"fmt"
	"strings"

	"queue_manager/model"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateEventCode tạo mã ngắn 8 ký tự cho participant nhập, check trùng trong DB
func GenerateEventCode(tx *gorm.DB) string {
	for {
		code := strings.ToUpper(uuid.New().String()[:8])

		var count int64
		tx.Model(&model.Event{}).
			Where("code = ?", code).
			Count(&count)

		if count == 0 {
			return code
		}
	}
}

func GenerateUniqueEventSlug(tx *gorm.DB, name string) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Event{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
