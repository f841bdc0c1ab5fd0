package model

import "time"

// ResetConfirmation must be sent verbatim to wipe store data.
const ResetConfirmation = "RESET"

// DashboardStats is the admin overview.
type DashboardStats struct {
	Users          int64                 `json:"users"`
	Products       int64                 `json:"products"`
	Categories     int64                 `json:"categories"`
	Orders         int64                 `json:"orders"`
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
	Revenue        int64                 `json:"revenue"`
	Currency       string                `json:"currency"`
}

// ResetDataRequest wipes transactional data, optionally the catalog too.
type ResetDataRequest struct {
	Confirm        string `json:"confirm" binding:"required"`
	IncludeCatalog bool   `json:"include_catalog"`
}

// ResetDataResult reports what the reset removed.
type ResetDataResult struct {
	Tables []string  `json:"tables"`
	At     time.Time `json:"at"`
}
