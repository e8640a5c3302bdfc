package utils

import "github.com/google/uuid"

// NewID 随机 UUIDv4 字符串，用于请求 ID 与控制台会话 ID
func NewID() string { return uuid.NewString() }

// ValidID 是否为合法 UUID
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
