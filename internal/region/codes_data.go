package region

// divisions GB/T 2260 行政区划代码表（节选，覆盖平台当前开通服务的区域）。
// 新开通区域时在此追加即可，代码与名称以民政部公布为准。
var divisions = map[string]string{
	// 直辖市
	"110000": "北京市",
	"110100": "市辖区",
	"110101": "东城区",
	"110102": "西城区",
	"110105": "朝阳区",
	"110106": "丰台区",
	"110108": "海淀区",
	"110114": "昌平区",
	"120000": "天津市",
	"120100": "市辖区",
	"120101": "和平区",
	"120102": "河东区",
	"120104": "南开区",
	"120116": "滨海新区",
	"310000": "上海市",
	"310100": "市辖区",
	"310101": "黄浦区",
	"310104": "徐汇区",
	"310105": "长宁区",
	"310110": "杨浦区",
	"310112": "闵行区",
	"310115": "浦东新区",
	"500000": "重庆市",
	"500100": "市辖区",
	"500103": "渝中区",
	"500105": "江北区",
	"500107": "九龙坡区",

	// 华北
	"130000": "河北省",
	"130100": "石家庄市",
	"130102": "长安区",
	"130104": "桥西区",
	"130200": "唐山市",
	"130203": "路北区",
	"140000": "山西省",
	"140100": "太原市",
	"140105": "小店区",
	"150000": "内蒙古自治区",
	"150100": "呼和浩特市",
	"150102": "新城区",
	"152500": "锡林郭勒盟",
	"152502": "锡林浩特市",

	// 东北
	"210000": "辽宁省",
	"210100": "沈阳市",
	"210102": "和平区",
	"210200": "大连市",
	"210202": "中山区",
	"220000": "吉林省",
	"220100": "长春市",
	"220102": "南关区",
	"222400": "延边朝鲜族自治州",
	"222401": "延吉市",
	"230000": "黑龙江省",
	"230100": "哈尔滨市",
	"230103": "南岗区",

	// 华东
	"320000": "江苏省",
	"320100": "南京市",
	"320102": "玄武区",
	"320104": "秦淮区",
	"320500": "苏州市",
	"320505": "虎丘区",
	"320583": "昆山市",
	"330000": "浙江省",
	"330100": "杭州市",
	"330102": "上城区",
	"330106": "西湖区",
	"330200": "宁波市",
	"330203": "海曙区",
	"331000": "台州市",
	"331082": "临海市",
	"340000": "安徽省",
	"340100": "合肥市",
	"340111": "包河区",
	"350000": "福建省",
	"350100": "福州市",
	"350102": "鼓楼区",
	"350200": "厦门市",
	"350203": "思明区",
	"360000": "江西省",
	"360100": "南昌市",
	"360103": "西湖区",
	"370000": "山东省",
	"370100": "济南市",
	"370102": "历下区",
	"370200": "青岛市",
	"370202": "市南区",

	// 华中
	"410000": "河南省",
	"410100": "郑州市",
	"410102": "中原区",
	"420000": "湖北省",
	"420100": "武汉市",
	"420102": "江岸区",
	"420111": "洪山区",
	"430000": "湖南省",
	"430100": "长沙市",
	"430102": "芙蓉区",

	// 华南
	"440000": "广东省",
	"440100": "广州市",
	"440103": "荔湾区",
	"440106": "天河区",
	"440300": "深圳市",
	"440303": "罗湖区",
	"440304": "福田区",
	"440305": "南山区",
	"440306": "宝安区",
	"441900": "东莞市",
	"450000": "广西壮族自治区",
	"450100": "南宁市",
	"450102": "兴宁区",
	"460000": "海南省",
	"460100": "海口市",
	"460105": "秀英区",
	"460200": "三亚市",
	"460202": "海棠区",

	// 西南
	"510000": "四川省",
	"510100": "成都市",
	"510104": "锦江区",
	"510107": "武侯区",
	"513200": "阿坝藏族羌族自治州",
	"513201": "马尔康市",
	"520000": "贵州省",
	"520100": "贵阳市",
	"520102": "南明区",
	"530000": "云南省",
	"530100": "昆明市",
	"530102": "五华区",
	"540000": "西藏自治区",
	"540100": "拉萨市",
	"540102": "城关区",

	// 西北
	"610000": "陕西省",
	"610100": "西安市",
	"610102": "新城区",
	"610113": "雁塔区",
	"620000": "甘肃省",
	"620100": "兰州市",
	"620102": "城关区",
	"630000": "青海省",
	"630100": "西宁市",
	"630102": "城东区",
	"640000": "宁夏回族自治区",
	"640100": "银川市",
	"640104": "兴庆区",
	"650000": "新疆维吾尔自治区",
	"650100": "乌鲁木齐市",
	"650102": "天山区",
	"652800": "巴音郭楞蒙古自治州",
	"652801": "库尔勒市",

	// 港澳台
	"710000": "台湾省",
	"810000": "香港特别行政区",
	"820000": "澳门特别行政区",
}
