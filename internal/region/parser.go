package region

import "strings"

// Parsed 启发式地址拆分结果，未识别的层级为空字符串
type Parsed struct {
	Province string
	City     string
	District string
	Street   string
}

var (
	provinceSuffixes = []string{"省", "自治区", "特别行政区"}
	citySuffixes     = []string{"市", "盟", "州"}
	districtSuffixes = []string{"区", "县", "旗"}

	// 四个直辖市按前缀精确匹配，命中后跳过市级匹配
	municipalities = []string{"北京市", "上海市", "天津市", "重庆市"}
)

// ParseAddress 按后缀贪婪拆分中文地址字符串。
// 这只是尽力而为的启发式拆分，不做行政区划校验；
// 简称、口语化写法可能识别失败，需由权威代码表补充。
func ParseAddress(raw string) Parsed {
	var result Parsed
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return result
	}

	isMunicipality := false
	for _, m := range municipalities {
		if strings.HasPrefix(rest, m) {
			result.Province = m
			rest = rest[len(m):]
			isMunicipality = true
			break
		}
	}
	if !isMunicipality {
		if head, tail, ok := cutAfterFirst(rest, provinceSuffixes); ok {
			result.Province = head
			rest = tail
		}
	}

	// 直辖市已消费掉市级，不再匹配市
	if !isMunicipality {
		if head, tail, ok := cutAfterFirst(rest, citySuffixes); ok {
			// “苏州市”“郑州市”等地名中“州”先于“市”出现，向后吞并
			if strings.HasSuffix(head, "州") && strings.HasPrefix(tail, "市") {
				head += "市"
				tail = tail[len("市"):]
			}
			result.City = head
			rest = tail
		}
	}

	// 仅在已识别出市的情况下允许“市”后缀，用于捕获县级市
	dSuffixes := districtSuffixes
	if result.City != "" {
		dSuffixes = append([]string{}, districtSuffixes...)
		dSuffixes = append(dSuffixes, "市")
	}
	if head, tail, ok := cutAfterFirst(rest, dSuffixes); ok {
		result.District = head
		rest = tail
	}

	result.Street = rest
	return result
}

// cutAfterFirst 在 s 中查找最早出现的任一后缀，返回含后缀的前段与剩余部分
func cutAfterFirst(s string, suffixes []string) (head, tail string, ok bool) {
	best := -1
	bestLen := 0
	for _, suffix := range suffixes {
		idx := strings.Index(s, suffix)
		if idx < 0 {
			continue
		}
		end := idx + len(suffix)
		if best == -1 || end < best || (end == best && len(suffix) > bestLen) {
			best = end
			bestLen = len(suffix)
		}
	}
	if best < 0 {
		return "", s, false
	}
	return s[:best], s[best:], true
}
