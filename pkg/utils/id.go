package utils

import "github.com/google/uuid"

// NewID 生成实体主键（UUID v4 字符串）
func NewID() string { return uuid.NewString() }

// ValidID 判断外部传入的 id 是否为合法 UUID
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
