package region

import (
	"strings"
	"sync"
)

// Names 行政区划三级名称
type Names struct {
	Province string
	City     string
	District string
}

var (
	indexOnce     sync.Once
	provinceIndex map[string]string // 省名 → 省代码
	cityIndex     map[string]string // 省代码+市名 → 市代码
	districtIndex map[string]string // 市代码+区县名 → 区县代码
)

// TrimCode 去除行政区划代码尾部的补零对，用于前缀匹配。
// "440000" → "44"，"440300" → "4403"，"440305" 原样返回。
func TrimCode(code string) string {
	trimmed := strings.TrimSpace(code)
	for len(trimmed) >= 2 && strings.HasSuffix(trimmed, "00") {
		trimmed = trimmed[:len(trimmed)-2]
	}
	return trimmed
}

// ValidCode 判断是否为已知的六位行政区划代码
func ValidCode(code string) bool {
	_, ok := divisions[code]
	return ok
}

// NameForCode 依据六位代码反查省/市/区名称。
// 市级、区县级名称仅在代码表收录时返回，直辖市的市级名称为“市辖区”。
func NameForCode(code string) (Names, bool) {
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return Names{}, false
	}
	var names Names
	provinceCode := code[:2] + "0000"
	province, ok := divisions[provinceCode]
	if !ok {
		return Names{}, false
	}
	names.Province = province

	cityCode := code[:4] + "00"
	if cityCode != provinceCode {
		if city, ok := divisions[cityCode]; ok {
			names.City = city
		}
	}
	if code != cityCode && code != provinceCode {
		if district, ok := divisions[code]; ok {
			names.District = district
		}
	}
	return names, true
}

// CodeForNames 依据省/市/区名称正查最深一级的行政区划代码。
// 直辖市允许省市同名或市为空；任何一级查不到即返回 false。
func CodeForNames(province, city, district string) (string, bool) {
	buildIndexes()
	province = strings.TrimSpace(province)
	city = strings.TrimSpace(city)
	district = strings.TrimSpace(district)
	if province == "" {
		return "", false
	}
	provinceCode, ok := provinceIndex[province]
	if !ok {
		return "", false
	}
	if city == "" && district == "" {
		return provinceCode, true
	}

	cityCode := ""
	if city != "" && city != province {
		cityCode, ok = cityIndex[provinceCode[:2]+city]
		if !ok {
			return "", false
		}
	} else {
		// 直辖市：区县直接挂在“市辖区”之下
		cityCode = provinceCode[:2] + "0100"
		if _, ok := divisions[cityCode]; !ok {
			return provinceCode, district == ""
		}
	}
	if district == "" {
		return cityCode, true
	}

	districtCode, ok := districtIndex[cityCode[:4]+district]
	if !ok {
		return "", false
	}
	return districtCode, true
}

func buildIndexes() {
	indexOnce.Do(func() {
		provinceIndex = make(map[string]string)
		cityIndex = make(map[string]string)
		districtIndex = make(map[string]string)
		for code, name := range divisions {
			switch {
			case strings.HasSuffix(code, "0000"):
				provinceIndex[name] = code
			case strings.HasSuffix(code, "00"):
				cityIndex[code[:2]+name] = code
			default:
				districtIndex[code[:4]+name] = code
			}
		}
	})
}
