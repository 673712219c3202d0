package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AuditLog represents a record in audit_logs table. One row is written for
// each finalize, mark-paid, adjustment decision and completed import batch.
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Actor     string    `gorm:"column:actor;size:64;not null" json:"actor"`
	Action    string    `gorm:"column:action;size:64;not null;index" json:"action"`
	Level     string    `gorm:"column:level;size:10;not null" json:"level"` // INFO, WARN, ERROR
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Meta      JSONMap   `gorm:"column:meta;type:jsonb" json:"meta"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSONMap 是一个自定义类型，用于处理 JSONB 数据
type JSONMap map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, isStr := value.(string); isStr {
			bytes = []byte(s)
		} else {
			return errors.New("type assertion failed: value is not []byte")
		}
	}

	return json.Unmarshal(bytes, &j)
}
