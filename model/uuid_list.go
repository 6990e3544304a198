package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUIDList 冗余 ID 列表字段（jsonb 存储）
// 用户好友列表是 User 上的冗余数组，与好友请求账本通过事务保持同步
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for UUIDList: %T", value)
	}

	if len(data) == 0 {
		*l = UUIDList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains 判断 ID 是否在列表中
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add 添加 ID，已存在时不重复插入
func (l UUIDList) Add(id uuid.UUID) UUIDList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove 移除 ID，不存在时原样返回
func (l UUIDList) Remove(id uuid.UUID) UUIDList {
	out := make(UUIDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
