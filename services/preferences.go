package services

import (
	"context"
	"errors"
	"net/url"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"go.uber.org/zap"
)

const FEED_SIZE = 10

// Feed is what one preference shows: a single kind, the filters applied
// to it and the route of its "View all" link.
type Feed struct {
	Preference string            `json:"preference"`
	Kind       models.Kind       `json:"kind"`
	Label      string            `json:"label"`
	Filters    map[string]string `json:"filters,omitempty"`
	ViewAll    string            `json:"view_all"`
	Default    bool              `json:"default"`
}

func feedOf(preference string, kind models.Kind, filters map[string]string) Feed {
	spec := models.MustKind(kind)
	viewAll := spec.Prefix
	if len(filters) > 0 {
		values := url.Values{}
		for param, value := range filters {
			values.Set(param, value)
		}
		viewAll += "?" + values.Encode()
	}
	return Feed{
		Preference: preference,
		Kind:       kind,
		Label:      spec.Label,
		Filters:    filters,
		ViewAll:    viewAll,
	}
}

// FeedFor maps a stored preference to its feed. Unknown or empty values
// get the government jobs feed.
func FeedFor(notificationsAbout, govtJobType string) Feed {
	switch notificationsAbout {
	case models.PREF_ADMISSIONS:
		return feedOf(notificationsAbout, models.ADMISSION, nil)
	case models.PREF_INTERNSHIPS:
		return feedOf(notificationsAbout, models.INTERNSHIP, nil)
	case models.PREF_SCHOLARSHIPS:
		return feedOf(notificationsAbout, models.SCHOLARSHIP, nil)
	case models.PREF_RESULTS:
		return feedOf(notificationsAbout, models.RESULT, nil)
	case models.PREF_ADMIT_CARDS:
		return feedOf(notificationsAbout, models.ADMIT_CARD, nil)
	case models.PREF_IT_JOBS:
		return feedOf(notificationsAbout, models.JOB, map[string]string{"job_type": models.TECH_IT})
	case models.PREF_NON_IT_JOBS:
		return feedOf(notificationsAbout, models.JOB, map[string]string{"job_type": models.TECH_NON_IT})
	case models.PREF_GOVT_JOBS:
		if govtJobType == "" {
			return feedOf(notificationsAbout, models.GOVT_JOB, nil)
		}
		return feedOf(notificationsAbout, models.GOVT_JOB, map[string]string{"govt_job_type": govtJobType})
	}
	feed := feedOf(models.PREF_GOVT_JOBS, models.GOVT_JOB, nil)
	feed.Default = true
	return feed
}

type ForYou struct {
	Feed        Feed                `json:"feed"`
	Preferences *models.Preferences `json:"preferences,omitempty"`
	Listings    []models.Listing    `json:"listings"`
}

type PreferencesService struct {
	users     repositories.UserRepository
	listings  *ListingsService
	publisher Publisher
	logger    *zap.Logger
}

func (p *PreferencesService) Update(
	ctx context.Context,
	claims *Claims,
	form *forms.PreferencesForm,
) (*models.Preferences, *res.ErrorRes) {
	if err := forms.Validate(form); err != nil {
		return nil, badRequest(errors.New(forms.Message(err)))
	}
	user, errRes := findUser(ctx, p.users, claims)
	if errRes != nil {
		return nil, errRes
	}
	preferences := form.ToModel()
	if err := p.users.UpdatePreferences(ctx, user.ID, preferences); err != nil {
		return nil, res.NewErrorRes(err)
	}
	if err := p.publisher.PublishEncode(SUBJECT_PREFERENCES_UPDATED, res.PreferencesUpdated{
		UserID:             user.ID.Hex(),
		NotificationsAbout: preferences.NotificationsAbout,
	}); err != nil {
		p.logger.Warn("publish preferences", zap.String("user", user.ID.Hex()), zap.Error(err))
	}
	return &preferences, nil
}

// ForYou dispatches exactly one fetch, chosen by the stored preference.
func (p *PreferencesService) ForYou(ctx context.Context, claims *Claims) (*ForYou, *res.ErrorRes) {
	user, errRes := findUser(ctx, p.users, claims)
	if errRes != nil {
		return nil, errRes
	}
	var feed Feed
	if user.Preferences == nil {
		feed = FeedFor("", "")
	} else {
		feed = FeedFor(user.Preferences.NotificationsAbout, user.Preferences.GovtJobType)
	}
	page, errRes := p.listings.ListListings(ctx, feed.Kind, repositories.ListQuery{
		Page:    1,
		Limit:   FEED_SIZE,
		Filters: feed.Filters,
	})
	if errRes != nil {
		return nil, errRes
	}
	return &ForYou{
		Feed:        feed,
		Preferences: user.Preferences,
		Listings:    page.Listings,
	}, nil
}

func NewPreferencesService(
	users repositories.UserRepository,
	listings *ListingsService,
	publisher Publisher,
	logger *zap.Logger,
) *PreferencesService {
	return &PreferencesService{
		users:     users,
		listings:  listings,
		publisher: publisher,
		logger:    nopLogger(logger),
	}
}
