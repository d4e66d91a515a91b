// Package smaps describes response bodies for the swagger docs.
package smaps

import (
	"github.com/CPU-commits/CareerNest/aggregate"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/services"
)

type SessionMap struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type UserMap struct {
	User models.User `json:"user"`
}

type PreferencesMap struct {
	Preferences models.Preferences `json:"preferences"`
	Feed        services.Feed      `json:"feed"`
}

type ResetMap struct {
	ResetID string `json:"reset_id"`
}

type ListingsMap struct {
	Listings   []models.Listing `json:"listings"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

type ListingMap struct {
	Listing models.Listing `json:"listing"`
}

type WhatsNewMap struct {
	Items []aggregate.Item `json:"items"`
}

type ForYouMap struct {
	ForYou services.ForYou `json:"for_you"`
}
