package openfoodfacts

import "strconv"

type prefixRange struct {
	lo, hi  int
	country string
}

// gs1Prefixes is checked in order; the first matching range wins.
var gs1Prefixes = []prefixRange{
	{0, 19, "USA, Canada"},
	{20, 29, "In-Store / Restricted Circulation"},
	{30, 39, "USA - Drugs"},
	{40, 49, "Restricted Distribution (e.g., coupons)"},
	{50, 59, "USA - Reserved"},
	{60, 139, "USA, Canada"},
	{200, 299, "Restricted Distribution"},
	{300, 379, "France, Monaco"},
	{380, 380, "Bulgaria"},
	{383, 383, "Slovenia"},
	{385, 385, "Croatia"},
	{387, 387, "Bosnia and Herzegovina"},
	{389, 389, "Montenegro"},
	{400, 440, "Germany"},
	{450, 459, "Japan"},
	{490, 491, "Japan"},
	{460, 460, "Russia"},
	{469, 469, "Russia"},
	{470, 479, "Kyrgyzstan, Taiwan"},
	{480, 489, "Philippines"},
	{500, 509, "United Kingdom"},
	{520, 521, "Greece"},
	{528, 528, "Lebanon"},
	{529, 529, "Cyprus"},
	{530, 539, "Albania, North Macedonia, Kosovo"},
	{540, 549, "Belgium, Luxembourg"},
	{560, 560, "Portugal"},
	{569, 569, "Iceland"},
	{570, 579, "Denmark, Faroe Islands, Greenland"},
	{590, 590, "Poland"},
	{594, 594, "Romania"},
	{599, 599, "Hungary"},
	{600, 601, "South Africa"},
	{603, 603, "Ghana"},
	{604, 604, "Senegal"},
	{608, 608, "Bahrain"},
	{609, 609, "Mauritius"},
	{610, 619, "Morocco"},
	{620, 621, "Algeria"},
	{622, 622, "Egypt"},
	{624, 624, "Libya"},
	{625, 625, "Jordan"},
	{626, 626, "Iran"},
	{627, 627, "Kuwait"},
	{628, 628, "Saudi Arabia"},
	{629, 629, "United Arab Emirates"},
	{640, 649, "Finland"},
	{690, 699, "China"},
	{700, 709, "Norway"},
	{729, 729, "Israel"},
	{730, 739, "Sweden"},
	{740, 740, "Guatemala"},
	{741, 741, "El Salvador"},
	{742, 742, "Honduras"},
	{743, 743, "Nicaragua"},
	{744, 744, "Costa Rica"},
	{745, 745, "Panama"},
	{746, 746, "Dominican Republic"},
	{750, 750, "Mexico"},
	{754, 755, "Canada"},
	{759, 759, "Venezuela"},
	{760, 769, "Switzerland, Liechtenstein"},
	{770, 771, "Colombia"},
	{773, 773, "Uruguay"},
	{775, 775, "Peru"},
	{777, 777, "Bolivia"},
	{778, 779, "Argentina"},
	{780, 780, "Chile"},
	{784, 786, "Paraguay, Ecuador, Brazil"},
	{789, 790, "Brazil"},
	{800, 839, "Italy, San Marino, Vatican"},
	{840, 849, "Spain, Andorra"},
	{850, 859, "Cuba"},
	{860, 860, "Serbia"},
	{865, 865, "Mongolia"},
	{867, 867, "North Korea"},
	{868, 869, "Turkey"},
	{870, 879, "Netherlands"},
	{880, 880, "South Korea"},
	{884, 885, "Cambodia, Thailand"},
	{888, 888, "Singapore"},
	{890, 899, "India"},
	{900, 919, "Austria"},
	{930, 939, "Australia"},
	{940, 949, "New Zealand"},
	{955, 955, "Malaysia"},
	{950, 959, "Global Office (GTIN-8)"},
	{960, 969, "Global Office"},
	{977, 977, "Serial Publications (ISSN)"},
	{978, 979, "Books (ISBN)"},
	{980, 980, "Refund Receipts"},
	{981, 984, "Common Currency Coupons"},
	{990, 999, "Coupons"},
}

// CountryFromBarcode names the GS1 member organisation that issued the
// barcode's three-digit prefix. It returns "" for short, non-numeric or
// unassigned prefixes.
func CountryFromBarcode(barcode string) string {
	if len(barcode) < 3 {
		return ""
	}
	prefix, err := strconv.Atoi(barcode[:3])
	if err != nil {
		return ""
	}
	for _, r := range gs1Prefixes {
		if prefix >= r.lo && prefix <= r.hi {
			return r.country
		}
	}
	return ""
}
