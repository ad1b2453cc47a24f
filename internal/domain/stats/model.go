package stats

type MemberTotals struct {
	Total    int64 `json:"total"`
	Living   int64 `json:"living"`
	Deceased int64 `json:"deceased"`
	Male     int64 `json:"male"`
	Female   int64 `json:"female"`
}

type GenerationCount struct {
	Generation int   `json:"generation"`
	Count      int64 `json:"count"`
}

type ContentCounts struct {
	Posts       int64 `json:"posts"`
	Albums      int64 `json:"albums"`
	Photos      int64 `json:"photos"`
	Condolences int64 `json:"condolences"`
}

type FundTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

type Dashboard struct {
	Members           MemberTotals      `json:"members"`
	Generations       []GenerationCount `json:"generations"`
	DeepestGeneration int               `json:"deepest_generation"`
	Content           ContentCounts     `json:"content"`
	Fund              FundTotals        `json:"fund"`
}
