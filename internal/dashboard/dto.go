package dashboard

type SectionCount struct {
	SectionID   int64  `json:"section_id"`
	SectionName string `json:"section_name"`
	Count       int64  `json:"count"`
}

type Summary struct {
	AssetsTotal          int64            `json:"assets_total"`
	AssetsByStatus       map[string]int64 `json:"assets_by_status"`
	AssetsBySection      []SectionCount   `json:"assets_by_section"`
	SectionsTotal        int64            `json:"sections_total"`
	LocationsTotal       int64            `json:"locations_total"`
	UsersTotal           int64            `json:"users_total"`
	LicensesTotal        int64            `json:"licenses_total"`
	TransfersLast30Days  int64            `json:"transfers_last_30_days"`
	LicensesExpiringSoon int64            `json:"licenses_expiring_within_60_days"`
}
