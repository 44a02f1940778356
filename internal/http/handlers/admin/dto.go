package admin

import "github.com/zulin-next/internal/models"

// AddressRequest 地址请求体
type AddressRequest struct {
	Contact    string `json:"contact"`
	Phone      string `json:"phone"`
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Street     string `json:"street"`
	RegionCode string `json:"region_code"`
}

func (r AddressRequest) toModel() models.Address {
	return models.Address{
		Contact:    r.Contact,
		Phone:      r.Phone,
		Province:   r.Province,
		City:       r.City,
		District:   r.District,
		Street:     r.Street,
		RegionCode: r.RegionCode,
	}
}
