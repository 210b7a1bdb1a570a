// Package domain defines member cross-reference types
package domain

import "congresswatch/internal/core/bill"

// Counts summarizes how many records fell into each bucket before truncation
type Counts struct {
	Authored    int `json:"authored"`
	Cosponsored int `json:"cosponsored"`
	Targeted    int `json:"targeted"`
}

// MemberActivity is the cross-reference result for one member
type MemberActivity struct {
	OK         bool   `json:"ok"`
	BioguideID string `json:"bioguideId"`

	// Name is the display name from the member lookup, empty when the
	// lookup failed
	Name string `json:"name,omitempty"`

	Counts      Counts        `json:"counts"`
	Authored    []bill.Record `json:"authored"`
	Cosponsored []bill.Record `json:"cosponsored"`
	Targeted    []bill.Record `json:"targeted"`
}
