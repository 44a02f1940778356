package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Address 结构化收货/退货地址
type Address struct {
	Contact    string `json:"contact"`
	Phone      string `json:"phone"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Street     string `json:"street"`
	RegionCode string `json:"region_code"` // GB/T 2260 六位行政区划代码
}

// IsZero 判断地址是否为空
func (a Address) IsZero() bool {
	return a.Province == "" && a.City == "" && a.District == "" &&
		a.Street == "" && a.RegionCode == "" && a.Contact == "" && a.Phone == ""
}

// Full 返回拼接后的完整地址
func (a Address) Full() string {
	var b strings.Builder
	b.WriteString(a.Province)
	b.WriteString(a.City)
	b.WriteString(a.District)
	b.WriteString(a.Street)
	return b.String()
}

// Value 实现 driver.Valuer 接口
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return nil
}
