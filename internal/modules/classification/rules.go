package classification

// Category path segments
const (
	segmentLiquid   = "Liquid assets"
	segmentIlliquid = "Illiquid assets"
	segmentOther    = "Other"
)

// Keyword groups, matched against the lowercased asset name
var (
	cashKeywords = []string{
		"cash", "deposit", "money market", "tagesgeld", "festgeld",
		"giro", "checking", "savings", "kasse", "liquidit",
	}
	bondKeywords = []string{
		"bond", "anleihe", "treasury", "bund", "pfandbrief",
		"coupon", "fixed income", "schuldverschreibung",
	}
	privateEquityKeywords = []string{
		"private equity", "venture", "beteiligung", "buyout",
		"holding", "growth fund",
	}
	realEstateKeywords = []string{
		"real estate", "immobilie", "property", "reit", "wohnung",
		"grundstueck", "grundstück", "objekt",
	}
	infrastructureKeywords = []string{
		"infrastructure", "infrastruktur", "solar", "windpark",
		"photovoltaik", "pipeline", "energiepark",
	}
	derivativeKeywords = []string{
		"option", "warrant", "future", "swap", "derivat",
		"zertifikat", "optionsschein",
	}
	collectibleKeywords = []string{
		"art ", "kunst", "collectible", "sammlung", "wine",
		"oldtimer", "classic car",
	}
	loanKeywords = []string{
		"loan", "darlehen", "kredit", "mortgage", "receivable",
		"forderung", "hypothek",
	}
	accrualKeywords = []string{
		"accrual", "abgrenzung", "payable", "verbindlichkeit",
		"rueckstellung", "rückstellung",
	}
	// Names of public companies that appear in the feed without any
	// category hint in the name itself
	publicCompanyKeywords = []string{
		"apple", "microsoft", "alphabet", "amazon", "nvidia", "tesla",
		"meta", "siemens", "allianz", "sap", "basf", "porsche",
		"nestle", "novartis", "asml", "lvmh",
	}
)

// DefaultRules returns the built-in ordered rule table. The order encodes
// precedence: cash before fixed income, explicit categories before the
// public-company list, and the equities fallback last.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "cash",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, cashKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Cash"},
				Liquid:       true,
				DefaultScore: 5,
			},
		},
		{
			Name: "fixed_income",
			Matches: func(in Input) bool {
				return in.HasInterestRate || nameContainsAny(in.Name, bondKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Fixed Income"},
				Liquid:       true,
				DefaultScore: 25,
			},
		},
		{
			Name: "private_equity",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, privateEquityKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentIlliquid, "Private Equity"},
				Liquid:       false,
				DefaultScore: 75,
			},
		},
		{
			Name: "real_estate",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, realEstateKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentIlliquid, "Real Estate"},
				Liquid:       false,
				DefaultScore: 45,
			},
		},
		{
			Name: "infrastructure",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, infrastructureKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentIlliquid, "Infrastructure"},
				Liquid:       false,
				DefaultScore: 50,
			},
		},
		{
			Name: "derivatives",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, derivativeKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Derivatives"},
				Liquid:       true,
				DefaultScore: 85,
			},
		},
		{
			Name: "alternative",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, collectibleKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentIlliquid, "Alternative"},
				Liquid:       false,
				DefaultScore: 65,
			},
		},
		{
			Name: "loans",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, loanKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Fixed Income"},
				Liquid:       true,
				DefaultScore: 30,
			},
		},
		{
			Name: "accruals",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, accrualKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentOther, "Accruals"},
				Liquid:       false,
				DefaultScore: 10,
			},
		},
		{
			Name: "public_companies",
			Matches: func(in Input) bool {
				return nameContainsAny(in.Name, publicCompanyKeywords)
			},
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Equities"},
				Liquid:       true,
				DefaultScore: 55,
			},
		},
		{
			Name:    "fallback_equities",
			Matches: func(Input) bool { return true },
			Result: Classification{
				CategoryPath: []string{segmentLiquid, "Equities"},
				Liquid:       true,
				DefaultScore: 55,
			},
		},
	}
}
