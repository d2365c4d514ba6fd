// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// PolicePositions are the ranks an officer account can hold.
var PolicePositions = []string{"OIC", "Sergeant", "Constable"}

// Officer is a police officer account.
type Officer struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	BadgeNumber   string    `json:"badgeNumber"`
	PoliceStation string    `json:"policeStation"`
	Position      string    `json:"position"`
	ProfileImage  string    `json:"profileImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Station is a police station record used during officer enrollment.
type Station struct {
	ID            string `json:"_id"`
	StationCode   string `json:"stationCode"`
	Name          string `json:"name"`
	District      string `json:"district"`
	OfficialEmail string `json:"officialEmail"`
}
